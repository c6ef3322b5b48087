package types

// File mode type bits stored in HFSPlusBSDInfo.FileMode
const (
	ModeTypeMask    uint16 = 0170000
	ModeFIFO        uint16 = 0010000
	ModeCharDevice  uint16 = 0020000
	ModeDirectory   uint16 = 0040000
	ModeBlockDevice uint16 = 0060000
	ModeRegular     uint16 = 0100000
	ModeSymlink     uint16 = 0120000
	ModeSocket      uint16 = 0140000
	ModeWhiteout    uint16 = 0160000
)

// OwnerFlagCompressed is UF_COMPRESSED in HFSPlusBSDInfo.OwnerFlags. The file's contents live in
// its com.apple.decmpfs attribute and possibly its resource fork.
const OwnerFlagCompressed uint8 = 0x20

// ModeTypeName returns a short name for the type bits of a file mode
func ModeTypeName(mode uint16) string {
	switch mode & ModeTypeMask {
	case ModeFIFO:
		return "fifo"
	case ModeCharDevice:
		return "char-device"
	case ModeDirectory:
		return "directory"
	case ModeBlockDevice:
		return "block-device"
	case ModeRegular:
		return "file"
	case ModeSymlink:
		return "symlink"
	case ModeSocket:
		return "socket"
	case ModeWhiteout:
		return "whiteout"
	default:
		return "unknown"
	}
}

// PermissionString renders a file mode as ls(1) does, e.g. "drwxr-xr-x"
func PermissionString(mode uint16) string {
	b := []byte("----------")
	switch mode & ModeTypeMask {
	case ModeDirectory:
		b[0] = 'd'
	case ModeSymlink:
		b[0] = 'l'
	case ModeCharDevice:
		b[0] = 'c'
	case ModeBlockDevice:
		b[0] = 'b'
	case ModeFIFO:
		b[0] = 'p'
	case ModeSocket:
		b[0] = 's'
	}
	const rwx = "rwxrwxrwx"
	for i := 0; i < 9; i++ {
		if mode&(1<<uint(8-i)) != 0 {
			b[i+1] = rwx[i]
		}
	}
	return string(b)
}
