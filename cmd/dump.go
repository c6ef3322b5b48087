package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-hfs/pkg/app/dump"
)

var (
	dumpForce      bool
	dumpNoProgress bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump <image> <output>",
	Short: "Write an image holding only the volume's metadata",
	Long: `Copy the boot blocks, volume headers, special files and journal of an HFS
volume into a new image of the same size. Every other sector is zero filled,
so the result can be shared for debugging without disclosing file contents.

Examples:
  go-hfs dump disk.img metadata.img
  go-hfs dump disk.img metadata.img --force --no-progress`,

	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDump(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().BoolVarP(&dumpForce, "force", "f", false, "overwrite an existing output file")
	dumpCmd.Flags().BoolVar(&dumpNoProgress, "no-progress", false, "do not show a progress bar")
}

func runDump(cmd *cobra.Command, imagePath, outputPath string) error {
	ctx := newContext(cmd)

	response, err := dump.Handle(ctx, &dump.Request{
		Target:     imageTarget(imagePath),
		OutputPath: outputPath,
		Force:      dumpForce,
		NoProgress: dumpNoProgress,
	})
	if err != nil {
		return err
	}

	if ctx.Verbose {
		ctx.Log(dump.FormatSummary(response))
	}
	if ctx.Quiet {
		return nil
	}
	return dump.FormatOutput(response, ctx.OutputFormat)
}
