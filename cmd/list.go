package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-hfs/pkg/app/list"
)

var (
	listPath       string
	listRecursive  bool
	listShowHidden bool
)

var listCmd = &cobra.Command{
	Use:   "list <image> [path]",
	Short: "List the contents of a folder",
	Long: `List the files and folders below a path of an HFS volume.

Examples:
  # List the root folder
  go-hfs list disk.img

  # List a folder recursively, including dot files
  go-hfs list disk.img /Users --recursive --all`,

	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := listPath
		if len(args) == 2 {
			path = args[1]
		}
		return runList(cmd, args[0], path)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listPath, "path", "/", "path to list")
	listCmd.Flags().BoolVarP(&listRecursive, "recursive", "r", false, "recursive listing")
	listCmd.Flags().BoolVarP(&listShowHidden, "all", "a", false, "include entries whose name starts with a dot")
}

func runList(cmd *cobra.Command, imagePath, path string) error {
	ctx := newContext(cmd)

	response, err := list.Handle(ctx, &list.Request{
		Target:     imageTarget(imagePath),
		Path:       path,
		Recursive:  listRecursive,
		ShowHidden: listShowHidden,
	})
	if err != nil {
		return err
	}

	if ctx.Verbose {
		ctx.Log(list.FormatSummary(response))
	}
	return list.FormatOutput(response, ctx.OutputFormat)
}
