package catalog

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// decodeBSDInfo decodes the 16-byte HFSPlusBSDInfo structure
func decodeBSDInfo(b []byte) types.HFSPlusBSDInfo {
	return types.HFSPlusBSDInfo{
		OwnerID:    binary.BigEndian.Uint32(b[0:4]),
		GroupID:    binary.BigEndian.Uint32(b[4:8]),
		AdminFlags: b[8],
		OwnerFlags: b[9],
		FileMode:   binary.BigEndian.Uint16(b[10:12]),
		Special:    binary.BigEndian.Uint32(b[12:16]),
	}
}

func encodeBSDInfo(b []byte, p types.HFSPlusBSDInfo) {
	binary.BigEndian.PutUint32(b[0:4], p.OwnerID)
	binary.BigEndian.PutUint32(b[4:8], p.GroupID)
	b[8] = p.AdminFlags
	b[9] = p.OwnerFlags
	binary.BigEndian.PutUint16(b[10:12], p.FileMode)
	binary.BigEndian.PutUint32(b[12:16], p.Special)
}

// decodeFileInfo decodes an FInfo / FileInfo structure
func decodeFileInfo(b []byte) types.FileInfo {
	return types.FileInfo{
		FileType:    types.FourCC(binary.BigEndian.Uint32(b[0:4])),
		FileCreator: types.FourCC(binary.BigEndian.Uint32(b[4:8])),
		FinderFlags: binary.BigEndian.Uint16(b[8:10]),
		LocationV:   int16(binary.BigEndian.Uint16(b[10:12])),
		LocationH:   int16(binary.BigEndian.Uint16(b[12:14])),
		Reserved:    binary.BigEndian.Uint16(b[14:16]),
	}
}

func encodeFileInfo(b []byte, fi types.FileInfo) {
	binary.BigEndian.PutUint32(b[0:4], uint32(fi.FileType))
	binary.BigEndian.PutUint32(b[4:8], uint32(fi.FileCreator))
	binary.BigEndian.PutUint16(b[8:10], fi.FinderFlags)
	binary.BigEndian.PutUint16(b[10:12], uint16(fi.LocationV))
	binary.BigEndian.PutUint16(b[12:14], uint16(fi.LocationH))
	binary.BigEndian.PutUint16(b[14:16], fi.Reserved)
}

// decodeFolderInfo decodes a DInfo / FolderInfo structure
func decodeFolderInfo(b []byte) types.FolderInfo {
	return types.FolderInfo{
		WindowTop:    int16(binary.BigEndian.Uint16(b[0:2])),
		WindowLeft:   int16(binary.BigEndian.Uint16(b[2:4])),
		WindowBottom: int16(binary.BigEndian.Uint16(b[4:6])),
		WindowRight:  int16(binary.BigEndian.Uint16(b[6:8])),
		FinderFlags:  binary.BigEndian.Uint16(b[8:10]),
		LocationV:    int16(binary.BigEndian.Uint16(b[10:12])),
		LocationH:    int16(binary.BigEndian.Uint16(b[12:14])),
		Reserved:     binary.BigEndian.Uint16(b[14:16]),
	}
}

func encodeFolderInfo(b []byte, fi types.FolderInfo) {
	binary.BigEndian.PutUint16(b[0:2], uint16(fi.WindowTop))
	binary.BigEndian.PutUint16(b[2:4], uint16(fi.WindowLeft))
	binary.BigEndian.PutUint16(b[4:6], uint16(fi.WindowBottom))
	binary.BigEndian.PutUint16(b[6:8], uint16(fi.WindowRight))
	binary.BigEndian.PutUint16(b[8:10], fi.FinderFlags)
	binary.BigEndian.PutUint16(b[10:12], uint16(fi.LocationV))
	binary.BigEndian.PutUint16(b[12:14], uint16(fi.LocationH))
	binary.BigEndian.PutUint16(b[14:16], fi.Reserved)
}
