package dsstore

import (
	"errors"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/deploymenttheory/go-hfs/internal/parsers/dsstore"
	"github.com/deploymenttheory/go-hfs/internal/types"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Handle decodes a .DS_Store file and lists its tree and records
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	data, source, err := readSource(ctx, req)
	if err != nil {
		return nil, err
	}
	ctx.Log(fmt.Sprintf("Decoding %s (%d bytes)", source, len(data)))

	store, err := dsstore.Open(data)
	if err != nil {
		return nil, app.WrapError("failed to decode .DS_Store", err)
	}

	header := store.Header()
	rb := store.RootBlock()
	th := store.TreeHeader()
	treeBlock, _ := store.TreeBlock()

	response := &Response{
		Source: source,
		Size:   len(data),
		Allocator: AllocatorInfo{
			RootBlockOffset: header.RootBlockOffset,
			RootBlockSize:   header.RootBlockSize,
			BlockCount:      rb.BlockCount(),
		},
		Tree: TreeInfo{
			HeaderBlock: treeBlock,
			RootNode:    th.RootNode,
			Levels:      th.Levels,
			Records:     th.Records,
			Nodes:       th.Nodes,
			PageSize:    th.PageSize,
		},
		Nodes:   []NodeInfo{},
		Records: []RecordInfo{},
	}
	for _, e := range rb.TableOfContents() {
		response.Allocator.TOC = append(response.Allocator.TOC, TOCEntry{Name: e.Name, BlockID: e.BlockID})
	}

	err = store.Walk(ctx, func(depth int, n *dsstore.Node) error {
		response.Nodes = append(response.Nodes, NodeInfo{
			BlockID:  n.BlockID,
			Depth:    depth,
			Leaf:     n.IsLeaf(),
			Records:  len(n.Records),
			Children: n.ChildBlocks(),
		})
		return nil
	})
	if err != nil {
		return nil, app.WrapError("failed to walk record tree", err)
	}

	records, err := store.Records(ctx)
	if err != nil {
		return nil, app.WrapError("failed to read records", err)
	}
	for _, rec := range records {
		info, err := describeRecord(rec, req.ExpandPlists)
		if err != nil {
			ctx.Warn(fmt.Sprintf("Cannot interpret %s of %q: %v", rec.StructID, rec.Filename, err))
		}
		response.Records = append(response.Records, info)
	}
	if uint32(len(records)) != th.Records {
		ctx.Warn(fmt.Sprintf("Tree header claims %d records, found %d", th.Records, len(records)))
	}

	ctx.Log(fmt.Sprintf("Decoded %d nodes and %d records", len(response.Nodes), len(response.Records)))
	return response, nil
}

// readSource loads the file from the host or, when an image is given, from the HFS volume
func readSource(ctx *app.Context, req *Request) ([]byte, string, error) {
	if req.Image.Path == "" {
		data, err := os.ReadFile(req.File)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, "", app.NewError(app.ErrCodeNotFound, fmt.Sprintf("%s does not exist", req.File), err)
			}
			return nil, "", app.NewError(app.ErrCodeDevice, fmt.Sprintf("failed to read %s", req.File), err)
		}
		return data, req.File, nil
	}

	vol, err := app.OpenVolume(ctx, req.Image)
	if err != nil {
		return nil, "", err
	}
	defer vol.Close()

	p := path.Clean("/" + req.File)
	fs := vol.FileSystem()
	node, err := fs.GetNodeByPath(p)
	if err != nil {
		return nil, "", app.WrapError(fmt.Sprintf("cannot find %s", p), err)
	}
	if node.IsDirectory {
		return nil, "", app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("%s is a folder", p), nil)
	}
	data, err := fs.ReadFile(node.CNID)
	if err != nil {
		return nil, "", app.WrapError(fmt.Sprintf("failed to read %s", p), err)
	}
	return data, fmt.Sprintf("%s:%s", req.Image.String(), p), nil
}

func describeRecord(rec dsstore.Record, expandPlists bool) (RecordInfo, error) {
	info := RecordInfo{
		Filename:   rec.Filename,
		StructID:   rec.StructID.String(),
		StructType: rec.StructType.String(),
	}

	switch v := rec.Value.(type) {
	case []byte:
		info.Value = fmt.Sprintf("blob (%d bytes)", len(v))
		decoded, err := dsstore.InterpretBlob(rec.StructID, v)
		if err != nil {
			return info, err
		}
		info.Detail = describeBlob(decoded)
		if pl, ok := decoded.(*dsstore.PropertyList); ok && expandPlists {
			xml, err := pl.XML()
			if err != nil {
				return info, err
			}
			info.Plist = xml
		}
	case string:
		info.Value = fmt.Sprintf("%q", v)
	case types.FourCC:
		info.Value = v.String()
	case dsstore.Timestamp:
		info.Value = v.Time().Format("2006-01-02 15:04:05 MST")
	default:
		info.Value = fmt.Sprint(v)
	}
	return info, nil
}

func describeBlob(v any) string {
	switch b := v.(type) {
	case dsstore.IconLocation:
		return fmt.Sprintf("x=%d y=%d", b.X, b.Y)
	case dsstore.WindowInfo:
		return fmt.Sprintf("top=%d left=%d bottom=%d right=%d, %s", b.Top, b.Left, b.Bottom, b.Right, b.ViewName())
	case dsstore.Background:
		switch b.Kind.String() {
		case "ClrB":
			return fmt.Sprintf("color rgb(%d, %d, %d)", b.Red, b.Green, b.Blue)
		case "PctB":
			return fmt.Sprintf("picture (%d byte alias)", b.PictureBlobSize)
		default:
			return "default background"
		}
	case *dsstore.IconViewOptions:
		return fmt.Sprintf("icon size %d, arranged by %s, labels %s", b.IconSize, b.ArrangeBy, b.LabelPosition)
	case *dsstore.PropertyList:
		if dict, ok := b.Value.(map[string]any); ok {
			keys := make([]string, 0, len(dict))
			for k := range dict {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			return fmt.Sprintf("property list {%s}", strings.Join(keys, ", "))
		}
		return "property list"
	default:
		return ""
	}
}
