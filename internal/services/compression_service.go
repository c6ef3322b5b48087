package services

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-hfs/internal/parsers/attributes"
	datastreams "github.com/deploymenttheory/go-hfs/internal/parsers/data_streams"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// CompressionService finds decmpfs compressed files and inspects their headers
type CompressionService struct {
	attributes *AttributesFile
	catalog    *CatalogFile
	log        *logrus.Entry
}

// NewCompressionService creates a compression service. catalog is only needed to resolve paths.
func NewCompressionService(attrs *AttributesFile, catalog *CatalogFile, log *logrus.Entry) *CompressionService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &CompressionService{attributes: attrs, catalog: catalog, log: log}
}

// ScanDecmpfs walks the attributes tree depth-first and reports every file carrying a valid
// com.apple.decmpfs header. Records that cannot be interpreted are logged and returned as
// warnings. When withPaths is set each entry's path is resolved through the catalog.
func (cs *CompressionService) ScanDecmpfs(ctx context.Context, withPaths bool) (*DecmpfsScanResult, error) {
	if cs.attributes == nil {
		return nil, fmt.Errorf("volume has no attributes file: %w", types.ErrNotFound)
	}
	if withPaths && cs.catalog == nil {
		return nil, fmt.Errorf("resolving paths requires a catalog file")
	}

	result := &DecmpfsScanResult{Entries: []DecmpfsEntry{}}
	warn := func(cnid types.CatalogNodeID, format string, args ...interface{}) {
		reason := fmt.Sprintf(format, args...)
		cs.log.WithField("cnid", cnid).Warn(reason)
		result.Warnings = append(result.Warnings, ScanWarning{CNID: cnid, Reason: reason})
	}
	unexpected := func(node uint32, kind types.NodeKind) {
		cs.log.WithFields(logrus.Fields{"node": node, "kind": kind}).Warn("Unexpected attributes B-tree node type")
	}

	err := cs.attributes.Walk(ctx, func(_ uint32, rec attributes.LeafRecord) error {
		key := rec.Key()
		if key.Name().String() != types.DecmpfsAttributeName {
			return nil
		}
		cnid := key.FileID()
		if key.StartBlock() != 0 {
			warn(cnid, "has %s attribute with non-0 start block (%d)", types.DecmpfsAttributeName, key.StartBlock())
			return nil
		}
		inline, ok := rec.(*attributes.InlineDataRecord)
		if !ok {
			warn(cnid, "has %s attribute without inline data (%s)", types.DecmpfsAttributeName, rec.RecordType())
			return nil
		}

		data := inline.Data()
		header, err := datastreams.NewDecmpfsHeaderReader(data)
		switch {
		case errors.Is(err, types.ErrInvalidMagic):
			warn(cnid, "has %s attribute with mismatching magic (expected: 0x%08x, actual: 0x%08x)",
				types.DecmpfsAttributeName, types.DecmpfsMagic, binary.LittleEndian.Uint32(data[0:4]))
			return nil
		case err != nil:
			warn(cnid, "has unreadable %s attribute: %v", types.DecmpfsAttributeName, err)
			return nil
		}

		entry := DecmpfsEntry{
			CNID:             cnid,
			CompressionType:  uint32(header.CompressionType()),
			CompressionName:  header.CompressionTypeName(),
			UncompressedSize: header.UncompressedSize(),
		}
		if withPaths {
			path, err := cs.catalog.Path(cnid)
			if err != nil {
				return fmt.Errorf("failed to resolve path of CNID %d: %w", cnid, err)
			}
			entry.Path = path
		}
		cs.log.WithFields(logrus.Fields{"cnid": cnid, "type": entry.CompressionType}).Debug("Found decmpfs attribute")
		result.Entries = append(result.Entries, entry)
		return nil
	}, unexpected)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Header decodes the decmpfs header of a compressed file. The compressed content itself is
// never expanded.
func (cs *CompressionService) Header(cnid types.CatalogNodeID) (*datastreams.DecmpfsHeaderReader, error) {
	if cs.attributes == nil {
		return nil, fmt.Errorf("volume has no attributes file: %w", types.ErrNotFound)
	}
	rec, err := cs.attributes.Get(cnid, types.DecmpfsAttributeName)
	if err != nil {
		return nil, err
	}
	inline, ok := rec.(*attributes.InlineDataRecord)
	if !ok {
		return nil, fmt.Errorf("%s attribute of %d is a %s record: %w", types.DecmpfsAttributeName, cnid, rec.RecordType(), types.ErrUnsupported)
	}
	return datastreams.NewDecmpfsHeaderReader(inline.Data())
}
