package list

import (
	"fmt"
	"path"
	"strings"

	"github.com/deploymenttheory/go-hfs/internal/services"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Handle processes a directory listing request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	target := path.Clean("/" + strings.TrimPrefix(req.Path, "/"))

	ctx.Log(fmt.Sprintf("Listing %s in: %s", target, req.Target.String()))
	ctx.Progress("Opening image...", 10)

	vol, err := app.OpenVolume(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	defer vol.Close()

	fs := vol.FileSystem()
	node, err := fs.GetNodeByPath(target)
	if err != nil {
		return nil, app.WrapError(fmt.Sprintf("cannot list %s", target), err)
	}

	ctx.Progress("Reading catalog...", 40)
	var nodes []*services.FileNode
	switch {
	case !node.IsDirectory:
		nodes = []*services.FileNode{node}
	case req.Recursive:
		prefix := strings.TrimSuffix(target, "/") + "/"
		err = fs.Walk(ctx, func(n *services.FileNode) error {
			if strings.HasPrefix(n.Path, prefix) {
				nodes = append(nodes, n)
			}
			return nil
		})
	default:
		nodes, err = fs.ListDirectoryContents(ctx, node.CNID)
	}
	if err != nil {
		return nil, app.WrapError(fmt.Sprintf("failed to list %s", target), err)
	}

	name, err := vol.Name()
	if err != nil {
		ctx.Warn(fmt.Sprintf("Cannot read volume name: %v", err))
	}
	response := &Response{Path: target, VolumeName: name, Entries: []app.FileEntry{}}
	for _, n := range nodes {
		if !req.ShowHidden && isHidden(n.Path) {
			continue
		}
		entry := app.NewFileEntry(n)
		if n.IsDirectory {
			response.TotalDirs++
		} else {
			response.TotalFiles++
			response.TotalSize += n.Size
		}
		response.Entries = append(response.Entries, entry)
	}

	ctx.Progress("Complete", 100)
	ctx.Log(fmt.Sprintf("Listed %d entries", len(response.Entries)))
	return response, nil
}

// isHidden reports whether any component of p starts with a dot
func isHidden(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
