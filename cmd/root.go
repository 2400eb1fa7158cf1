package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/datasync/cmd/duration"
	"github.com/sidkik/datasync/cmd/show"
	"github.com/sidkik/datasync/cmd/util"
	"github.com/sidkik/datasync/cmd/validate"
	"github.com/sidkik/datasync/cmd/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "DATASYNC_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if err := New().Execute(); err != nil {
		util.HandleFatalError(err)
	}
}

// New creates the root `datasync` command.
func New() *cobra.Command {
	var logFormat string
	rootCmd := &cobra.Command{
		Use:          "datasync",
		Short:        "Inspect the data sync configuration of a redundant BMC",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return util.SetupLogging(logFormat, os.Getenv(verboseLogKey) == "true")
		},
	}
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", util.LogFormatText,
		"The format of log output. Either \"text\" or \"json\".")

	rootCmd.AddCommand(
		duration.New(),
		show.New(),
		validate.New(),
		version.New(),
	)
	return rootCmd
}
