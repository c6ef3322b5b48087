package scan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/docker/go-units"
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

// formatTable prints one line per compressed file in the order the attributes tree holds them
func formatTable(out io.Writer, response *Response) error {
	if len(response.Entries) == 0 {
		fmt.Fprintln(out, "No compressed files found.")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "CNID\tTYPE\tSIZE\tPATH\n")
		fmt.Fprintf(w, "----\t----\t----\t----\n")
		for _, e := range response.Entries {
			path := e.Path
			if path == "" {
				path = "-"
			}
			fmt.Fprintf(w, "%d\t%d %s\t%d\t%s\n", e.CNID, e.CompressionType, e.CompressionName, e.UncompressedSize, path)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	for _, warning := range response.Warnings {
		fmt.Fprintf(out, "warning: CNID %d %s\n", warning.CNID, warning.Reason)
	}
	return nil
}

// FormatSummary provides a brief summary for verbose output
func FormatSummary(response *Response) string {
	summary := fmt.Sprintf("%d compressed files (%s uncompressed)",
		len(response.Entries), units.BytesSize(float64(response.TotalUncompressed)))

	names := make([]string, 0, len(response.ByType))
	for name := range response.ByType {
		names = append(names, name)
	}
	sort.Strings(names)
	var parts []string
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%d %s", response.ByType[name], name))
	}
	if len(parts) > 0 {
		summary += " [" + strings.Join(parts, ", ") + "]"
	}
	if n := len(response.Warnings); n > 0 {
		summary += fmt.Sprintf(", %d warnings", n)
	}
	return summary
}
