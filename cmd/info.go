package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-hfs/pkg/app/info"
)

var infoSystemFiles bool

var infoCmd = &cobra.Command{
	Use:   "info <image>",
	Short: "Show the volume header, journal and special files",
	Long: `Locate the HFS volume in an image and print its header.

Examples:
  # Describe the first HFS volume of an image
  go-hfs info disk.img

  # Include the extents of the catalog, extents, attributes and other special files
  go-hfs info disk.img --system-files -o yaml`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&infoSystemFiles, "system-files", false, "list the extents of the special files")
}

func runInfo(cmd *cobra.Command, imagePath string) error {
	ctx := newContext(cmd)

	response, err := info.Handle(ctx, &info.Request{
		Target:             imageTarget(imagePath),
		IncludeSystemFiles: infoSystemFiles,
	})
	if err != nil {
		return err
	}

	if ctx.Verbose {
		ctx.Log(info.FormatSummary(response))
	}
	return info.FormatOutput(response, ctx.OutputFormat)
}
