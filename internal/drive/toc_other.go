//go:build !linux

package drive

import (
	"context"
	"fmt"
	"log/slog"

	"discid/internal/discid"
)

func platformFeatures() discid.FeatureSet {
	return 0
}

func platformDefaultDevice() string {
	return ""
}

func checkDriveStatus(device string) (DriveStatus, error) {
	return DriveStatusNoInfo, fmt.Errorf("drive status unsupported on this platform")
}

func ejectDevice(ctx context.Context, device string) error {
	return fmt.Errorf("eject unsupported on this platform")
}

func readTOC(ctx context.Context, device string, requested discid.FeatureSet, logger *slog.Logger) (*discid.TOC, error) {
	return nil, fmt.Errorf("disc access unsupported on this platform")
}
