package discover

import (
	"bytes"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-hfs/internal/services"
	"github.com/deploymenttheory/go-hfs/internal/types"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// Handle processes a discovery request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log(fmt.Sprintf("Starting file discovery in: %s", req.Target.String()))
	ctx.Progress("Opening image...", 5)

	// 2. Log search criteria
	logSearchCriteria(ctx, req)

	vol, err := app.OpenVolume(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	defer vol.Close()

	// 3. Walk the catalog
	ctx.Progress("Scanning catalog...", 25)
	filter, err := buildFilter(req)
	if err != nil {
		return nil, err
	}
	fs := vol.FileSystem()
	nodes, err := fs.FindFiles(ctx, filter)
	if err != nil {
		return nil, app.WrapError("catalog search failed", err)
	}

	ctx.Progress("Processing results...", 70)
	response := &Response{Files: []app.FileEntry{}}
	for _, node := range nodes {
		if !matchesName(req, node.Name) || !matchesExtension(req, node) {
			continue
		}
		if req.ContentSearch != "" {
			ok, err := containsText(fs, node, req.ContentSearch, req.CaseSensitive)
			if err != nil {
				ctx.WithFields(logrus.Fields{"cnid": node.CNID, "path": node.Path}).
					Warn(fmt.Sprintf("Skipping content search: %v", err))
				continue
			}
			if !ok {
				continue
			}
		}
		response.Files = append(response.Files, app.NewFileEntry(node))
	}
	response.TotalFound = len(response.Files)

	// Truncate results if over limit
	if len(response.Files) > req.MaxResults {
		response.Files = response.Files[:req.MaxResults]
		response.Truncated = true
	}

	response.VolumeInfo = volumeInfo(ctx, vol)
	response.SearchQuery = createSearchQuery(req)
	response.SearchTime = time.Since(startTime)

	ctx.Progress("Complete", 100)
	ctx.Log(fmt.Sprintf("Discovery completed: found %d files in %v", response.TotalFound, response.SearchTime))

	return response, nil
}

// buildFilter converts the size, date and regex criteria. Name patterns and extensions are
// matched by the handler since they honour CaseSensitive.
func buildFilter(req *Request) (services.SearchFilter, error) {
	filter := services.SearchFilter{FilesOnly: !req.IncludeFolders}

	if req.NameRegex != "" {
		expr := req.NameRegex
		if !req.CaseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return filter, app.NewError(app.ErrCodeInvalidInput, "invalid regex pattern", err)
		}
		filter.NameRegex = re
	}
	if req.MinSize != "" {
		size, _ := ParseSize(req.MinSize)
		filter.MinSize = uint64(size)
	}
	if req.MaxSize != "" {
		size, _ := ParseSize(req.MaxSize)
		filter.MaxSize = uint64(size)
	}
	if req.ModifiedAfter != "" {
		filter.ModifiedAfter, _ = time.Parse(dateLayout, req.ModifiedAfter)
	}
	if req.ModifiedBefore != "" {
		filter.ModifiedBefore, _ = time.Parse(dateLayout, req.ModifiedBefore)
	}
	return filter, nil
}

func matchesName(req *Request, name string) bool {
	if req.NamePattern == "" {
		return true
	}
	pattern := req.NamePattern
	if !req.CaseSensitive {
		pattern, name = strings.ToLower(pattern), strings.ToLower(name)
	}
	matched, err := path.Match(pattern, name)
	return err == nil && matched
}

func matchesExtension(req *Request, node *services.FileNode) bool {
	if len(req.Extensions) == 0 {
		return true
	}
	if node.IsDirectory {
		return false
	}
	ext := strings.TrimPrefix(path.Ext(node.Name), ".")
	for _, want := range req.Extensions {
		want = strings.TrimPrefix(want, ".")
		if ext == want || (!req.CaseSensitive && strings.EqualFold(ext, want)) {
			return true
		}
	}
	return false
}

// containsText reads the data fork of a file and looks for text
func containsText(fs *services.FileSystemServiceImpl, node *services.FileNode, text string, caseSensitive bool) (bool, error) {
	if node.IsDirectory {
		return false, nil
	}
	data, err := fs.ReadFile(node.CNID)
	if err != nil {
		return false, err
	}
	if caseSensitive {
		return bytes.Contains(data, []byte(text)), nil
	}
	return bytes.Contains(bytes.ToLower(data), bytes.ToLower([]byte(text))), nil
}

func volumeInfo(ctx *app.Context, vol *app.Volume) VolumeInfo {
	info := VolumeInfo{
		Dialect:       vol.Dialect().String(),
		CaseSensitive: vol.Catalog().CompareType() == types.KeyCompareBinary,
		Partition:     -1,
	}
	if name, err := vol.Name(); err == nil {
		info.Name = name
	} else {
		ctx.Warn(fmt.Sprintf("Cannot read volume name: %v", err))
	}
	if _, err := vol.Journal(); err == nil {
		info.Journaled = true
	}
	if p, ok := vol.Device.Partition(); ok {
		info.Partition = p.Index
	}
	return info
}

// logSearchCriteria logs the search criteria for verbose output
func logSearchCriteria(ctx *app.Context, req *Request) {
	if !ctx.Verbose {
		return
	}

	ctx.Log("Search criteria:")
	if req.NamePattern != "" {
		ctx.Log(fmt.Sprintf("  Name pattern: %s", req.NamePattern))
	}
	if req.NameRegex != "" {
		ctx.Log(fmt.Sprintf("  Name regex: %s", req.NameRegex))
	}
	if len(req.Extensions) > 0 {
		ctx.Log(fmt.Sprintf("  Extensions: %s", strings.Join(req.Extensions, ", ")))
	}
	if req.ContentSearch != "" {
		ctx.Log(fmt.Sprintf("  Content search: \"%s\"", req.ContentSearch))
	}
	if req.MinSize != "" || req.MaxSize != "" {
		ctx.Log(fmt.Sprintf("  Size range: %s - %s", req.MinSize, req.MaxSize))
	}
	if req.ModifiedAfter != "" || req.ModifiedBefore != "" {
		ctx.Log(fmt.Sprintf("  Modified: %s - %s", req.ModifiedAfter, req.ModifiedBefore))
	}
}

// createSearchQuery creates a SearchQuery from the request
func createSearchQuery(req *Request) SearchQuery {
	return SearchQuery{
		NamePattern:    req.NamePattern,
		NameRegex:      req.NameRegex,
		Extensions:     req.Extensions,
		CaseSensitive:  req.CaseSensitive,
		MinSize:        req.MinSize,
		MaxSize:        req.MaxSize,
		ModifiedAfter:  req.ModifiedAfter,
		ModifiedBefore: req.ModifiedBefore,
		ContentSearch:  req.ContentSearch,
		IncludeFolders: req.IncludeFolders,
		MaxResults:     req.MaxResults,
	}
}
