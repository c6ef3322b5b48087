package discover

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

	"github.com/deploymenttheory/go-hfs/pkg/app"
)

// FormatOutput formats discovery results according to output format
func FormatOutput(response *Response, format string) error {
	return WriteOutput(os.Stdout, response, format)
}

// WriteOutput writes discovery results to w
func WriteOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "table":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatTable formats results as a table
func formatTable(out io.Writer, response *Response) error {
	if len(response.Files) == 0 {
		fmt.Fprintln(out, "No files found matching the search criteria.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	// Header
	fmt.Fprintf(w, "PATH\tNAME\tSIZE\tMODIFIED\tTYPE\n")
	fmt.Fprintf(w, "----\t----\t----\t--------\t----\n")

	// Sort files by path for consistent output
	files := make([]app.FileEntry, len(response.Files))
	copy(files, response.Files)
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	// Data rows
	for _, file := range files {
		modTime := file.Modified.Format("2006-01-02 15:04")
		name := file.Name
		if file.Compressed {
			name += " (compressed)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", file.Path, name, file.FormatSize(), modTime, file.Type)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	// Summary
	fmt.Fprintf(out, "\n")
	if response.VolumeInfo.Name != "" {
		fmt.Fprintf(out, "Volume: %s (%s)\n", response.VolumeInfo.Name, response.VolumeInfo.Dialect)
	}
	fmt.Fprintf(out, "Found %d files", response.TotalFound)
	if response.Truncated {
		fmt.Fprintf(out, " (showing first %d)", len(response.Files))
	}
	fmt.Fprintf(out, " in %v\n", response.SearchTime)

	return nil
}

// formatJSON formats results as JSON
func formatJSON(w io.Writer, response *Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats results as YAML
func formatYAML(w io.Writer, response *Response) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}

// FormatSummary provides a brief summary for verbose output
func FormatSummary(response *Response) string {
	if response.TotalFound == 0 {
		return "No files found"
	}

	summary := fmt.Sprintf("Found %d file", response.TotalFound)
	if response.TotalFound != 1 {
		summary += "s"
	}

	if response.Truncated {
		summary += fmt.Sprintf(" (showing %d)", len(response.Files))
	}

	// Add size breakdown
	var totalSize uint64
	sizeClasses := make(map[SizeClass]int)

	for _, file := range response.Files {
		totalSize += file.Size
		sizeClasses[GetSizeClass(file.Size)]++
	}

	summary += fmt.Sprintf(" totaling %s", units.BytesSize(float64(totalSize)))

	var breakdown []string
	for _, class := range []SizeClass{SizeClassTiny, SizeClassSmall, SizeClassMedium, SizeClassLarge, SizeClassHuge} {
		if n := sizeClasses[class]; n > 0 {
			breakdown = append(breakdown, fmt.Sprintf("%d %s", n, class))
		}
	}
	summary += fmt.Sprintf(" [%s]", strings.Join(breakdown, ", "))
	summary += fmt.Sprintf(" in %v", response.SearchTime)

	return summary
}
