package dsstore

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"howett.net/plist"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

var bplistMagic = []byte("bplist")

// IconLocation is an Iloc blob: the position of an item's icon in its Finder window
type IconLocation struct {
	X, Y    uint32
	Unknown [8]byte
}

// WindowInfo is an fwi0 blob: Finder window bounds and view style
type WindowInfo struct {
	Top, Left, Bottom, Right int16
	View    types.FourCC
	Unknown uint32
}

// ViewName returns the Finder view style of the window
func (w WindowInfo) ViewName() string {
	switch w.View.String() {
	case "icnv":
		return "Icon view"
	case "Nlsv":
		return "List view"
	case "clmv":
		return "Column view"
	case "Flwv":
		return "Cover flow"
	default:
		return "Unknown"
	}
}

// Background is a BKGD blob
type Background struct {
	Kind types.FourCC

	// ClrB
	Red, Green, Blue uint16

	// PctB
	PictureBlobSize uint32

	Raw [8]byte
}

// IconViewOptions is an icvo blob in either the 18-byte "icvo" or the 26-byte "icv4" layout
type IconViewOptions struct {
	Magic           types.FourCC
	IconSize        uint16
	ArrangeBy       types.FourCC
	LabelPosition   types.FourCC
	Flags           []byte
	ShowItemInfo    bool
	ShowIconPreview bool
	LegacyUnknown   uint64
}

// PropertyList is a binary property list blob such as bwsp, lsvp or icvp
type PropertyList struct {
	Format int
	Value  any
}

// XML renders the property list as indented XML
func (p *PropertyList) XML() (string, error) {
	out, err := plist.MarshalIndent(p.Value, plist.XMLFormat, "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// IsBinaryPlist reports whether the blob starts with the bplist signature
func IsBinaryPlist(blob []byte) bool {
	return bytes.HasPrefix(blob, bplistMagic)
}

// DecodePropertyList decodes a bplist blob
func DecodePropertyList(blob []byte) (*PropertyList, error) {
	var v any
	format, err := plist.Unmarshal(blob, &v)
	if err != nil {
		return nil, fmt.Errorf("failed to decode property list: %w", err)
	}
	return &PropertyList{Format: format, Value: v}, nil
}

// InterpretBlob decodes the blob layouts Finder is known to write. It returns nil without error
// for blobs whose layout is not recognized.
func InterpretBlob(structID types.FourCC, blob []byte) (any, error) {
	be := binary.BigEndian
	switch {
	case IsBinaryPlist(blob):
		return DecodePropertyList(blob)

	case structID.String() == "Iloc" && len(blob) == 16:
		loc := IconLocation{X: be.Uint32(blob[0:4]), Y: be.Uint32(blob[4:8])}
		copy(loc.Unknown[:], blob[8:16])
		return loc, nil

	case structID.String() == "fwi0" && len(blob) >= 16:
		return WindowInfo{
			Top:     int16(be.Uint16(blob[0:2])),
			Left:    int16(be.Uint16(blob[2:4])),
			Bottom:  int16(be.Uint16(blob[4:6])),
			Right:   int16(be.Uint16(blob[6:8])),
			View:    types.FourCC(be.Uint32(blob[8:12])),
			Unknown: be.Uint32(blob[12:16]),
		}, nil

	case structID.String() == "BKGD" && len(blob) == 12:
		bg := Background{Kind: types.FourCC(be.Uint32(blob[0:4]))}
		copy(bg.Raw[:], blob[4:12])
		switch bg.Kind.String() {
		case "ClrB":
			bg.Red = be.Uint16(blob[4:6])
			bg.Green = be.Uint16(blob[6:8])
			bg.Blue = be.Uint16(blob[8:10])
		case "PctB":
			bg.PictureBlobSize = be.Uint32(blob[4:8])
		}
		return bg, nil

	case structID.String() == "icvo" && len(blob) >= 4:
		o, err := decodeIconViewOptions(blob)
		if o == nil {
			return nil, err
		}
		return o, nil
	}
	return nil, nil
}

func decodeIconViewOptions(blob []byte) (*IconViewOptions, error) {
	be := binary.BigEndian
	o := &IconViewOptions{Magic: types.FourCC(be.Uint32(blob[0:4]))}
	switch o.Magic.String() {
	case "icvo":
		if len(blob) < 18 {
			return nil, fmt.Errorf("icvo blob of %d bytes: %w", len(blob), types.ErrInsufficientData)
		}
		o.LegacyUnknown = be.Uint64(blob[4:12])
		o.IconSize = be.Uint16(blob[12:14])
		o.ArrangeBy = types.FourCC(be.Uint32(blob[14:18]))
	case "icv4":
		if len(blob) < 26 {
			return nil, fmt.Errorf("icv4 blob of %d bytes: %w", len(blob), types.ErrInsufficientData)
		}
		o.IconSize = be.Uint16(blob[4:6])
		o.ArrangeBy = types.FourCC(be.Uint32(blob[6:10]))
		o.LabelPosition = types.FourCC(be.Uint32(blob[10:14]))
		o.Flags = bytes.Clone(blob[14:26])
		o.ShowItemInfo = o.Flags[1]&0x1 != 0
		o.ShowIconPreview = o.Flags[11]&0x1 != 0
	default:
		return nil, nil
	}
	return o, nil
}
