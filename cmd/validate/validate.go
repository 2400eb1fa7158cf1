package validate

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sidkik/datasync/cmd/util"
	"github.com/sidkik/datasync/pkg/config"
	"github.com/sidkik/datasync/pkg/errors"
)

// Mocked for unit testing.
var stdout io.Writer = os.Stdout

// New creates a new `validate` command.
func New() *cobra.Command {
	var configDir string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that every data sync configuration file can be loaded",
		Long: "Load the configuration directory and fail if any file or record\n" +
			"had to be skipped. Fields that fall back to their defaults are\n" +
			"logged but don't fail validation.",
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			dir, err := util.ResolveConfigDir(configDir)
			if err != nil {
				util.HandleFatalError(err)
			}

			if err := run(dir); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	util.AddConfigDirFlag(cmd, &configDir)
	return cmd
}

func run(dir string) error {
	agg, report := config.Load(dir)
	if report.OK() {
		fmt.Fprintf(stdout, "Loaded %d rules from %d files in %s\n",
			agg.Len(), len(report.Sources), dir)
		return nil
	}
	return errors.NewFriendlyError("%s", describeFailures(report))
}

func describeFailures(report config.Report) string {
	var lines []string
	if report.DirErr != nil {
		lines = append(lines, fmt.Sprintf("Failed to read %s: %s", report.Dir, report.DirErr))
	}
	for _, skipped := range report.SkippedSources {
		lines = append(lines, fmt.Sprintf("Skipped %s: %s",
			skipped.Path, errors.GetPrintableMessage(skipped.Err)))
	}
	for _, rejected := range report.RejectedRecords {
		lines = append(lines, fmt.Sprintf("Rejected %s", rejected))
	}
	return "The data sync configuration is invalid:\n" + strings.Join(lines, "\n")
}
