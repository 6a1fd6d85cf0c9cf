package drive

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Ejector defines disc eject operations.
type Ejector interface {
	Eject(ctx context.Context, device string) error
}

type driveEjector struct{}

// NewEjector creates an ejector that uses the kernel eject interface and
// falls back to the eject utility.
func NewEjector() Ejector {
	return driveEjector{}
}

func (driveEjector) Eject(ctx context.Context, device string) error {
	device = strings.TrimSpace(device)
	if device == "" {
		device = platformDefaultDevice()
	}

	if err := ejectDevice(ctx, device); err == nil {
		return nil
	}

	var cmd *exec.Cmd
	if device == "" {
		cmd = exec.CommandContext(ctx, "eject")
	} else {
		cmd = exec.CommandContext(ctx, "eject", device)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("eject %s: %w", device, err)
	}
	return nil
}
