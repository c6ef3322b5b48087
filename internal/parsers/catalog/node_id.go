package catalog

import "github.com/deploymenttheory/go-hfs/internal/types"

// ReservedID names a catalog node ID with a fixed meaning
type ReservedID int

const (
	ReservedRootParent ReservedID = iota
	ReservedRootFolder
	ReservedExtentsFile
	ReservedCatalogFile
	ReservedBadBlocksFile
	ReservedAllocationFile
	ReservedStartupFile
	ReservedAttributesFile
	ReservedRepairCatalogFile
	ReservedBogusExtentFile
	ReservedFirstUserCatalogNode
)

var reservedIDs = map[ReservedID]types.CatalogNodeID{
	ReservedRootParent:           types.CNIDRootParent,
	ReservedRootFolder:           types.CNIDRootFolder,
	ReservedExtentsFile:          types.CNIDExtentsFile,
	ReservedCatalogFile:          types.CNIDCatalogFile,
	ReservedBadBlocksFile:        types.CNIDBadBlocksFile,
	ReservedAllocationFile:       types.CNIDAllocationFile,
	ReservedStartupFile:          types.CNIDStartupFile,
	ReservedAttributesFile:       types.CNIDAttributesFile,
	ReservedRepairCatalogFile:    types.CNIDRepairCatalogFile,
	ReservedBogusExtentFile:      types.CNIDBogusExtentFile,
	ReservedFirstUserCatalogNode: types.CNIDFirstUserCatalog,
}

// Classic HFS defines only these.
var hfsReservedIDs = map[ReservedID]bool{
	ReservedRootParent:           true,
	ReservedRootFolder:           true,
	ReservedExtentsFile:          true,
	ReservedCatalogFile:          true,
	ReservedBadBlocksFile:        true,
	ReservedFirstUserCatalogNode: true,
}

var reservedIDNames = map[ReservedID]string{
	ReservedRootParent:           "root parent",
	ReservedRootFolder:           "root folder",
	ReservedExtentsFile:          "extents file",
	ReservedCatalogFile:          "catalog file",
	ReservedBadBlocksFile:        "bad blocks file",
	ReservedAllocationFile:       "allocation file",
	ReservedStartupFile:          "startup file",
	ReservedAttributesFile:       "attributes file",
	ReservedRepairCatalogFile:    "repair catalog file",
	ReservedBogusExtentFile:      "bogus extent file",
	ReservedFirstUserCatalogNode: "first user catalog node",
}

// String returns the name of the reserved ID
func (r ReservedID) String() string {
	if name, ok := reservedIDNames[r]; ok {
		return name
	}
	return "unknown"
}

// GetHFSReservedID returns the CNID of r on a classic HFS volume.
// ok is false for IDs classic HFS does not define.
func GetHFSReservedID(r ReservedID) (id types.CatalogNodeID, ok bool) {
	if !hfsReservedIDs[r] {
		return 0, false
	}
	return reservedIDs[r], true
}

// GetHFSPlusReservedID returns the CNID of r on an HFS+ or HFSX volume
func GetHFSPlusReservedID(r ReservedID) (id types.CatalogNodeID, ok bool) {
	id, ok = reservedIDs[r]
	return id, ok
}

// GetReservedID dispatches to GetHFSReservedID or GetHFSPlusReservedID
func GetReservedID(dialect types.Dialect, r ReservedID) (types.CatalogNodeID, bool) {
	if dialect == types.DialectHFS {
		return GetHFSReservedID(r)
	}
	return GetHFSPlusReservedID(r)
}

// ReservedIDName returns the name of id if it is reserved in the dialect
func ReservedIDName(dialect types.Dialect, id types.CatalogNodeID) (string, bool) {
	for r, v := range reservedIDs {
		if v != id {
			continue
		}
		if _, ok := GetReservedID(dialect, r); ok {
			return r.String(), true
		}
	}
	return "", false
}
