package info

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

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
	img := response.Image
	vol := response.Volume

	fmt.Fprintf(w, "Image:\t%s (%s, %s)\n", img.Path, img.Format, units.BytesSize(float64(img.Size)))
	fmt.Fprintf(w, "Partition scheme:\t%s\n", img.Scheme)
	if img.Partition != nil {
		fmt.Fprintf(w, "Partition:\t%d\n", *img.Partition)
	}
	fmt.Fprintf(w, "Volume offset:\t%d\n", img.VolumeOffset)
	if img.Wrapped {
		fmt.Fprintf(w, "Wrapper:\tHFS wrapper around HFS+\n")
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Name:\t%s\n", vol.Name)
	fmt.Fprintf(w, "Format:\t%s (%s)\n", vol.Dialect, vol.Signature)
	if vol.LastMountedVersion != "" {
		fmt.Fprintf(w, "Last mounted by:\t%s\n", vol.LastMountedVersion)
	}
	fmt.Fprintf(w, "Created:\t%s\n", formatDate(vol.CreateDate))
	fmt.Fprintf(w, "Modified:\t%s\n", formatDate(vol.ModifyDate))
	fmt.Fprintf(w, "Files / folders:\t%d / %d\n", vol.FileCount, vol.FolderCount)
	fmt.Fprintf(w, "Block size:\t%d\n", vol.Space.BlockSize)
	fmt.Fprintf(w, "Blocks:\t%d total, %d free\n", vol.Space.TotalBlocks, vol.Space.FreeBlocks)
	fmt.Fprintf(w, "Capacity:\t%s (%s used, %.1f%%)\n",
		units.BytesSize(float64(vol.Space.TotalCapacity)),
		units.BytesSize(float64(vol.Space.UsedSpace)),
		vol.Space.UsagePercentage)
	fmt.Fprintf(w, "Catalog:\tdepth %d, %d records, %d-byte nodes\n",
		vol.Catalog.Depth, vol.Catalog.LeafRecords, vol.Catalog.NodeSize)
	fmt.Fprintf(w, "Extents overflow:\tdepth %d, %d records\n",
		vol.ExtentsOverflow.Depth, vol.ExtentsOverflow.LeafRecords)
	if vol.AttributesTree != nil {
		fmt.Fprintf(w, "Attributes:\tdepth %d, %d records\n", vol.AttributesTree.Depth, vol.AttributesTree.LeafRecords)
	}
	if j := vol.Journal; j != nil {
		fmt.Fprintf(w, "Journal:\tblock %d, %s at offset %d\n", j.InfoBlock, units.BytesSize(float64(j.Size)), j.Offset)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(vol.SystemFiles) > 0 {
		fmt.Fprintf(out, "\n")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "FILE\tCNID\tSIZE\tBLOCKS\tEXTENTS\n")
		fmt.Fprintf(w, "----\t----\t----\t------\t-------\n")
		for _, sf := range vol.SystemFiles {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", sf.Name, sf.CNID, sf.LogicalSize, sf.TotalBlocks, len(sf.Extents))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(response.Partitions) > 0 {
		fmt.Fprintf(out, "\n")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "INDEX\tTYPE\tNAME\tOFFSET\tSIZE\tHFS\n")
		fmt.Fprintf(w, "-----\t----\t----\t------\t----\t---\n")
		for _, p := range response.Partitions {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%t\n", p.Index, p.Type, p.Name, p.Offset, units.BytesSize(float64(p.Size)), p.HFS)
		}
		return w.Flush()
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatSummary provides a brief summary for verbose output
func FormatSummary(response *Response) string {
	vol := response.Volume
	return fmt.Sprintf("%s volume %q: %d files, %d folders, %s",
		vol.Dialect, vol.Name, vol.FileCount, vol.FolderCount, units.BytesSize(float64(vol.Space.TotalCapacity)))
}
