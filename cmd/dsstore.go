package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-hfs/pkg/app/dsstore"
)

var (
	dsstoreImage  string
	dsstorePlists bool
)

var dsstoreCmd = &cobra.Command{
	Use:   "dsstore <file>",
	Short: "Decode a Finder .DS_Store file",
	Long: `Print the allocator, the record tree and the records of a .DS_Store file.
With --image the file is read from an HFS volume instead of the host.

Examples:
  go-hfs dsstore ~/Desktop/.DS_Store
  go-hfs dsstore /Users/me/Documents/.DS_Store --image disk.img --plists`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDSStore(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(dsstoreCmd)

	dsstoreCmd.Flags().StringVarP(&dsstoreImage, "image", "i", "", "read the file from this image")
	dsstoreCmd.Flags().BoolVar(&dsstorePlists, "plists", false, "print embedded property lists as XML")
}

func runDSStore(cmd *cobra.Command, file string) error {
	ctx := newContext(cmd)

	request := &dsstore.Request{File: file, ExpandPlists: dsstorePlists || ctx.Verbose}
	if dsstoreImage != "" {
		request.Image = imageTarget(dsstoreImage)
	}

	response, err := dsstore.Handle(ctx, request)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		ctx.Log(dsstore.FormatSummary(response))
	}
	return dsstore.FormatOutput(response, ctx.OutputFormat)
}
