package duration

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/datasync/cmd/util"
	"github.com/sidkik/datasync/pkg/config"
	"github.com/sidkik/datasync/pkg/errors"
)

// Mocked for unit testing.
var stdout io.Writer = os.Stdout

// New creates a new `duration` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "duration DURATION...",
		Short: "Convert ISO 8601 durations to seconds",
		Long: "Print the number of seconds in each ISO 8601 duration, as they'd be\n" +
			"interpreted in a data sync configuration file. Only durations of\n" +
			"the form PT[nH][nM][nS] are supported.",
		Args: cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if err := run(args); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
}

func run(durations []string) error {
	for _, duration := range durations {
		seconds, ok := config.ParseISODuration(duration)
		if !ok {
			return errors.NewFriendlyError("%q isn't a valid duration. "+
				"Durations must match PT[nH][nM][nS], and be at most 65535 seconds.", duration)
		}
		fmt.Fprintf(stdout, "%s\t%d\n", duration, seconds)
	}
	return nil
}
