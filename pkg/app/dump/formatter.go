package dump

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
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

func formatTable(out io.Writer, response *Response) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Source:\t%s\n", response.Source)
	fmt.Fprintf(w, "Output:\t%s\n", response.OutputPath)
	fmt.Fprintf(w, "Sectors written:\t%d (%s)\n", response.SectorCount, units.BytesSize(float64(response.BytesWritten)))
	fmt.Fprintf(w, "Metadata sectors:\t%d (%s)\n", response.MetadataSectors, units.BytesSize(float64(response.MetadataBytes())))
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "START\tEND\tSECTORS\n")
	fmt.Fprintf(w, "-----\t---\t-------\n")
	for _, r := range response.Ranges {
		fmt.Fprintf(w, "%d\t%d\t%d\n", r.Start, r.End, r.Len())
	}
	return w.Flush()
}

// FormatSummary provides a brief summary for verbose output
func FormatSummary(response *Response) string {
	return fmt.Sprintf("Dumped %d of %d sectors in %d ranges to %s in %v",
		response.MetadataSectors, response.SectorCount, len(response.Ranges), response.OutputPath, response.Duration)
}
