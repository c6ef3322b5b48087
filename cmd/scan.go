package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-hfs/pkg/app/scan"
)

var scanWithPaths bool

var scanCmd = &cobra.Command{
	Use:     "scan <image>",
	Aliases: []string{"scan-decmpfs"},
	Short:   "Find decmpfs compressed files",
	Long: `Walk the attributes B-tree and report every file carrying a
com.apple.decmpfs extended attribute, with its compression scheme and
uncompressed size. Unreadable attributes are reported as warnings.

Examples:
  go-hfs scan disk.img
  go-hfs scan disk.img --paths -o json`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanWithPaths, "paths", false, "resolve the path of every compressed file")
}

func runScan(cmd *cobra.Command, imagePath string) error {
	ctx := newContext(cmd)

	response, err := scan.Handle(ctx, &scan.Request{
		Target:    imageTarget(imagePath),
		WithPaths: scanWithPaths || ctx.Verbose,
	})
	if err != nil {
		return err
	}

	if ctx.Verbose {
		ctx.Log(scan.FormatSummary(response))
	}
	return scan.FormatOutput(response, ctx.OutputFormat)
}
