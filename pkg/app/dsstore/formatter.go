package dsstore

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// FormatOutput writes the response to stdout in the requested format
func FormatOutput(response *Response, format string) error {
	return WriteOutput(os.Stdout, response, format)
}

// WriteOutput writes the response to w in the requested format
func WriteOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(response)
	case "table":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatTable(out io.Writer, response *Response) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	alloc := response.Allocator
	tree := response.Tree

	fmt.Fprintf(w, "File:\t%s (%d bytes)\n", response.Source, response.Size)
	fmt.Fprintf(w, "Root block:\toffset 0x%x, %d bytes, %d blocks\n", alloc.RootBlockOffset, alloc.RootBlockSize, alloc.BlockCount)
	for _, e := range alloc.TOC {
		fmt.Fprintf(w, "TOC:\t%s -> block %d\n", e.Name, e.BlockID)
	}
	fmt.Fprintf(w, "Tree:\troot node %d, %d levels, %d records, %d nodes, page size %d\n",
		tree.RootNode, tree.Levels, tree.Records, tree.Nodes, tree.PageSize)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	for _, n := range response.Nodes {
		indent := strings.Repeat("  ", n.Depth)
		if n.Leaf {
			fmt.Fprintf(out, "%sleaf %d: %d records\n", indent, n.BlockID, n.Records)
		} else {
			fmt.Fprintf(out, "%sindex %d: %d records, children %v\n", indent, n.BlockID, n.Records, n.Children)
		}
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FILENAME\tID\tTYPE\tVALUE\n")
	fmt.Fprintf(w, "--------\t--\t----\t-----\n")
	for _, r := range response.Records {
		value := r.Value
		if r.Detail != "" {
			value += ": " + r.Detail
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Filename, r.StructID, r.StructType, value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, r := range response.Records {
		if r.Plist == "" {
			continue
		}
		fmt.Fprintf(out, "\n%s %s:\n%s\n", r.Filename, r.StructID, r.Plist)
	}
	return nil
}

// FormatSummary provides a brief summary for verbose output
func FormatSummary(response *Response) string {
	files := make(map[string]struct{})
	for _, r := range response.Records {
		files[r.Filename] = struct{}{}
	}
	return fmt.Sprintf("%d records for %d items in %d nodes", len(response.Records), len(files), len(response.Nodes))
}
