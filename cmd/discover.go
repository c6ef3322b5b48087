package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-hfs/pkg/app/discover"
)

var (
	// File matching criteria
	namePattern   string
	nameRegex     string
	extensions    []string
	caseSensitive bool

	// Size criteria
	minSize string
	maxSize string

	// Date criteria
	modifiedAfter  string
	modifiedBefore string

	// Content search
	contentSearch  string
	includeFolders bool
	maxResults     int
)

var discoverCmd = &cobra.Command{
	Use:   "discover <image>",
	Short: "Find files by name, size, date, or content",
	Long: `Search the catalog of an HFS volume using various criteria.

Examples:
  # Find all PDF files
  go-hfs discover disk.img --ext pdf

  # Find files with "password" in name
  go-hfs discover disk.img --name "*password*"

  # Find large files on the second partition
  go-hfs discover disk.img --partition 1 --min-size 100MB

  # Search file contents (decmpfs compressed files are skipped)
  go-hfs discover disk.img --content "secret" --ext txt,log`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiscover(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	// File matching
	discoverCmd.Flags().StringVarP(&namePattern, "name", "n", "", "filename pattern (wildcards: *, ?)")
	discoverCmd.Flags().StringVar(&nameRegex, "regex", "", "filename regex pattern")
	discoverCmd.Flags().StringSliceVar(&extensions, "ext", nil, "file extensions (pdf,jpg,txt)")
	discoverCmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "case-sensitive matching")

	// Size filtering
	discoverCmd.Flags().StringVar(&minSize, "min-size", "", "minimum file size (10MB, 1GB)")
	discoverCmd.Flags().StringVar(&maxSize, "max-size", "", "maximum file size (100MB, 2GB)")

	// Date filtering
	discoverCmd.Flags().StringVar(&modifiedAfter, "after", "", "modified after (YYYY-MM-DD)")
	discoverCmd.Flags().StringVar(&modifiedBefore, "before", "", "modified before (YYYY-MM-DD)")

	// Content search
	discoverCmd.Flags().StringVarP(&contentSearch, "content", "c", "", "search text within files")
	discoverCmd.Flags().BoolVar(&includeFolders, "folders", false, "include folders in the results")
	discoverCmd.Flags().IntVar(&maxResults, "limit", 1000, "maximum results")

	// Mutual exclusions
	discoverCmd.MarkFlagsMutuallyExclusive("name", "regex")
}

func runDiscover(cmd *cobra.Command, imagePath string) error {
	ctx := newContext(cmd)

	request := &discover.Request{
		Target:         imageTarget(imagePath),
		NamePattern:    namePattern,
		NameRegex:      nameRegex,
		Extensions:     extensions,
		CaseSensitive:  caseSensitive,
		MinSize:        minSize,
		MaxSize:        maxSize,
		ModifiedAfter:  modifiedAfter,
		ModifiedBefore: modifiedBefore,
		ContentSearch:  contentSearch,
		IncludeFolders: includeFolders,
		MaxResults:     maxResults,
	}

	response, err := discover.Handle(ctx, request)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		ctx.Log(discover.FormatSummary(response))
	}
	return discover.FormatOutput(response, ctx.OutputFormat)
}
