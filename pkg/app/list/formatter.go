package list

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

// FormatOutput writes the listing to stdout in the requested format
func FormatOutput(response *Response, format string) error {
	return WriteOutput(os.Stdout, response, format)
}

// WriteOutput writes the listing to w in the requested format
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
	if len(response.Entries) == 0 {
		fmt.Fprintf(out, "%s is empty.\n", response.Path)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PERMISSIONS\tCNID\tSIZE\tMODIFIED\tPATH\n")
	fmt.Fprintf(w, "-----------\t----\t----\t--------\t----\n")
	for _, e := range response.Entries {
		name := e.Path
		if e.Compressed {
			name += " (compressed)"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			e.Permissions, e.CNID, e.FormatSize(), e.Modified.Format("2006-01-02 15:04"), name)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d files, %d folders, %s\n",
		response.TotalFiles, response.TotalDirs, units.BytesSize(float64(response.TotalSize)))
	return nil
}

// FormatSummary provides a brief summary for verbose output
func FormatSummary(response *Response) string {
	return fmt.Sprintf("%s on %q: %d files, %d folders", response.Path, response.VolumeName,
		response.TotalFiles, response.TotalDirs)
}
