package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-hfs/internal/device"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

var (
	// Global output flags
	verbose      bool
	quiet        bool
	outputFormat string

	// Global image flags
	configFile string
	partition  int

	settings = viper.New()
	logFile  io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "go-hfs",
	Short: "Cross-platform HFS, HFS+ and HFSX volume explorer",
	Long: `go-hfs is a cross-platform, read-only command-line tool for exploring
Mac OS Standard (HFS), Mac OS Extended (HFS+) and HFSX volumes.

Works directly with raw disk images, partitioned images (APM, GPT, MBR),
qcow2 and UDIF (.dmg) images without mounting or relying on macOS.

Commands:
  info        Show the volume header and special files
  list        List the contents of a folder
  discover    Find files by name, extension, size, date or content
  dump        Write an image holding only the volume's metadata
  scan        Find decmpfs compressed files
  dsstore     Decode a Finder .DS_Store file`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	flags.StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	flags.StringVar(&configFile, "config", "", "config file (default ./hfs-config.yaml)")
	flags.IntVarP(&partition, "partition", "p", device.AutoPartition, "partition index, -1 selects the first HFS partition")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)

	cobra.CheckErr(settings.BindPFlag("output.format", flags.Lookup("output")))
	cobra.CheckErr(settings.BindPFlag("device.partition", flags.Lookup("partition")))
}

// normalizeFlagName accepts underscores in place of dashes, so --no_progress matches --no-progress
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// newContext creates the application context for a command from the global flags and config
func newContext(cmd *cobra.Command) *app.Context {
	ctx := app.NewContext()
	ctx.Context = cmd.Context()
	ctx.OutputFormat = settings.GetString("output.format")
	ctx.Verbose = verbose
	ctx.Quiet = quiet
	ctx.Device = deviceConfig
	ctx.Logger = logrus.NewEntry(logrus.StandardLogger()).WithField("command", cmd.Name())
	if verbose && !quiet {
		ctx.SetProgress(func(message string, percent int) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, message)
		})
	}
	return ctx
}

// imageTarget selects an image and the partition given by --partition or the config file
func imageTarget(path string) app.ImageTarget {
	return app.ImageTarget{Path: path, Partition: settings.GetInt("device.partition")}
}

func exitCode(err error) int {
	switch app.ErrorCode(err) {
	case app.ErrCodeInvalidInput:
		return 2
	case app.ErrCodeNotFound:
		return 3
	case app.ErrCodeCorruptedData:
		return 4
	default:
		return 1
	}
}
