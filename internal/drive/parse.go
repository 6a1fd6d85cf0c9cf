package drive

import "strings"

// parseMCN extracts the media catalog number from a raw CDROM_GET_MCN
// buffer. Discs without a catalog number report all zeros, which counts as
// absent.
func parseMCN(raw []byte) string {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	mcn := strings.TrimSpace(string(raw[:end]))
	if strings.Trim(mcn, "0") == "" {
		return ""
	}
	return mcn
}

// parseISRC extracts the ISRC from a READ SUB-CHANNEL response block.
// The second return value is false when the TCVAL bit is clear or the code
// is malformed, meaning the track carries no usable ISRC.
func parseISRC(data []byte) (string, bool) {
	if len(data) < 21 {
		return "", false
	}
	if data[8]&0x80 == 0 { // TCVAL
		return "", false
	}
	isrc := string(data[9:21])
	for _, c := range isrc {
		if !isISRCChar(byte(c)) {
			return "", false
		}
	}
	return isrc, true
}

func isISRCChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	default:
		return false
	}
}
