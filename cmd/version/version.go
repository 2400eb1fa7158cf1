package version

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/datasync/pkg/version"
)

// Mocked for unit testing.
var stdout io.Writer = os.Stdout

// New creates a new `version` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of datasync.",
		Long: "Print the version of datasync, as a git commit hash, and the\n" +
			"configuration directory it reads by default.",
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			run()
		},
	}
}

func run() {
	fmt.Fprintf(stdout, "version:            %s\n", version.Version)
	fmt.Fprintf(stdout, "default config dir: %s\n", version.DefaultConfigDir)
}
