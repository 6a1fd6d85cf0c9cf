//go:build linux

package drive

import (
	"context"
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/unix"

	"discid/internal/discid"
	"discid/internal/logging"
)

// CDROM ioctl requests from <linux/cdrom.h>.
const (
	ioctlReadTOCHeader = 0x5305 // CDROMREADTOCHDR
	ioctlReadTOCEntry  = 0x5306 // CDROMREADTOCENTRY
	ioctlEject         = 0x5309 // CDROMEJECT
	ioctlGetMCN        = 0x5311 // CDROM_GET_MCN
	ioctlDriveStatus   = 0x5326 // CDROM_DRIVE_STATUS
	ioctlSGIO          = 0x2285 // SG_IO
)

const (
	addressFormatLBA = 0x01 // CDROM_LBA
	leadoutTrack     = 0xAA

	// pregapOffset converts kernel LBA addresses to TOC frame addresses,
	// which include the standard 150-sector lead-in gap.
	pregapOffset = 150
)

// tocHeader mirrors struct cdrom_tochdr.
type tocHeader struct {
	firstTrack uint8
	lastTrack  uint8
}

// tocEntry mirrors struct cdrom_tocentry with the address union read as LBA.
type tocEntry struct {
	track    uint8
	adrCtrl  uint8
	format   uint8
	_        uint8
	lba      int32
	datamode uint8
	_        [3]byte
}

// mcnData mirrors struct cdrom_mcn.
type mcnData struct {
	mcn [14]byte
}

func platformFeatures() discid.FeatureSet {
	return discid.AllFeatures
}

func platformDefaultDevice() string {
	return "/dev/cdrom"
}

func openDevice(device string) (int, error) {
	fd, err := unix.Open(device, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return -1, fmt.Errorf("open %s: %w", device, err)
	}
	return fd, nil
}

func ioctlPtr(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func checkDriveStatus(device string) (DriveStatus, error) {
	fd, err := openDevice(device)
	if err != nil {
		return DriveStatusNoInfo, err
	}
	defer unix.Close(fd)

	status, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(ioctlDriveStatus), 0)
	if errno != 0 {
		return DriveStatusNoInfo, fmt.Errorf("drive status on %s: %w", device, errno)
	}
	return DriveStatus(status), nil
}

func ejectDevice(ctx context.Context, device string) error {
	fd, err := openDevice(device)
	if err != nil {
		return err
	}
	defer unix.Close(fd)

	if err := ioctlPtr(fd, ioctlEject, nil); err != nil {
		return fmt.Errorf("eject %s: %w", device, err)
	}
	return nil
}

// readTOC queries the kernel for the disc layout and, when requested, the
// media catalog number and per-track ISRCs. Optional lookups degrade to
// empty values on failure; only the TOC itself is mandatory.
func readTOC(ctx context.Context, device string, requested discid.FeatureSet, logger *slog.Logger) (*discid.TOC, error) {
	status, err := checkDriveStatus(device)
	if err != nil {
		return nil, err
	}
	if status != DriveStatusDiscOK {
		return nil, fmt.Errorf("%s: drive reports %s", device, status)
	}

	fd, err := openDevice(device)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)

	var header tocHeader
	if err := ioctlPtr(fd, ioctlReadTOCHeader, unsafe.Pointer(&header)); err != nil {
		return nil, fmt.Errorf("read toc header on %s: %w", device, err)
	}
	if header.firstTrack < 1 || header.lastTrack < header.firstTrack {
		return nil, fmt.Errorf("%s: toc header lists tracks %d..%d", device, header.firstTrack, header.lastTrack)
	}

	toc := &discid.TOC{
		FirstTrack: int(header.firstTrack),
		LastTrack:  int(header.lastTrack),
	}

	for number := int(header.firstTrack); number <= int(header.lastTrack); number++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		offset, err := readTOCEntry(fd, uint8(number))
		if err != nil {
			return nil, fmt.Errorf("read toc entry %d on %s: %w", number, device, err)
		}
		toc.Tracks = append(toc.Tracks, discid.Track{Number: number, Offset: offset})
	}

	leadout, err := readTOCEntry(fd, leadoutTrack)
	if err != nil {
		return nil, fmt.Errorf("read leadout on %s: %w", device, err)
	}
	toc.Sectors = leadout

	// Lengths from adjacent offsets; the lead-out closes the last track.
	for i := range toc.Tracks {
		end := toc.Sectors
		if i+1 < len(toc.Tracks) {
			end = toc.Tracks[i+1].Offset
		}
		toc.Tracks[i].Length = end - toc.Tracks[i].Offset
	}

	if requested.Contains(discid.FeatureMCN) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mcn, err := readMCN(fd)
		if err != nil {
			logger.Debug("mcn unavailable", logging.String(logging.FieldDevice, device), logging.Error(err))
		} else {
			toc.MCN = mcn
		}
	}

	if requested.Contains(discid.FeatureISRC) {
		for i := range toc.Tracks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			isrc, err := readISRC(fd, uint8(toc.Tracks[i].Number))
			if err != nil {
				logger.Debug("isrc unavailable",
					logging.String(logging.FieldDevice, device),
					logging.Int("track", toc.Tracks[i].Number),
					logging.Error(err))
				continue
			}
			toc.Tracks[i].ISRC = isrc
		}
	}

	return toc, nil
}

func readTOCEntry(fd int, track uint8) (int, error) {
	entry := tocEntry{track: track, format: addressFormatLBA}
	if err := ioctlPtr(fd, ioctlReadTOCEntry, unsafe.Pointer(&entry)); err != nil {
		return 0, err
	}
	return int(entry.lba) + pregapOffset, nil
}

func readMCN(fd int) (string, error) {
	var data mcnData
	if err := ioctlPtr(fd, ioctlGetMCN, unsafe.Pointer(&data)); err != nil {
		return "", err
	}
	return parseMCN(data.mcn[:]), nil
}

// SG_IO plumbing for READ SUB-CHANNEL, the only way to obtain ISRCs through
// the kernel. Layout mirrors struct sg_io_hdr on 64-bit Linux.
type sgIOHdr struct {
	interfaceID    int32
	dxferDirection int32
	cmdLen         uint8
	mxSBLen        uint8
	iovecCount     uint16
	dxferLen       uint32
	dxferp         uintptr
	cmdp           uintptr
	sbp            uintptr
	timeout        uint32
	flags          uint32
	packID         int32
	_              [4]byte
	usrPtr         uintptr
	status         uint8
	maskedStatus   uint8
	msgStatus      uint8
	sbLenWr        uint8
	hostStatus     uint16
	driverStatus   uint16
	resid          int32
	duration       uint32
	info           uint32
	_              [4]byte
}

const (
	sgInterfaceID   = 'S'
	sgDxferFromDev  = -3
	sgTimeoutMillis = 30000

	cdbReadSubChannel  = 0x42
	subChannelISRC     = 0x03
	subChannelDataSize = 24
)

func readISRC(fd int, track uint8) (string, error) {
	cdb := [10]byte{
		cdbReadSubChannel,
		0x00,
		0x40, // SUBQ: return sub-channel data
		subChannelISRC,
		0x00, 0x00,
		track,
		0x00, subChannelDataSize,
		0x00,
	}
	data := make([]byte, subChannelDataSize)
	sense := make([]byte, 32)

	hdr := sgIOHdr{
		interfaceID:    sgInterfaceID,
		dxferDirection: sgDxferFromDev,
		cmdLen:         uint8(len(cdb)),
		mxSBLen:        uint8(len(sense)),
		dxferLen:       uint32(len(data)),
		dxferp:         uintptr(unsafe.Pointer(&data[0])),
		cmdp:           uintptr(unsafe.Pointer(&cdb[0])),
		sbp:            uintptr(unsafe.Pointer(&sense[0])),
		timeout:        sgTimeoutMillis,
	}

	if err := ioctlPtr(fd, ioctlSGIO, unsafe.Pointer(&hdr)); err != nil {
		return "", fmt.Errorf("read sub-channel for track %d: %w", track, err)
	}
	if hdr.status != 0 {
		return "", fmt.Errorf("read sub-channel for track %d: scsi status %d", track, hdr.status)
	}

	isrc, ok := parseISRC(data)
	if !ok {
		// TCVAL clear: the track carries no ISRC. Not an error.
		return "", nil
	}
	return isrc, nil
}
