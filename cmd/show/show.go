package show

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/ghodss/yaml"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/datasync/cmd/util"
	"github.com/sidkik/datasync/pkg/config"
	"github.com/sidkik/datasync/pkg/errors"
	"github.com/sidkik/datasync/pkg/fswatch"
)

// Mocked for unit testing.
var (
	stdout   io.Writer = os.Stdout
	watchDir           = fswatch.WatchDir
)

// Supported values for the `--output` flag.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

type printer func(io.Writer, config.Aggregate) error

var printers = map[string]printer{
	outputTable: printTable,
	outputJSON:  printJSON,
	outputYAML:  printYAML,
}

// New creates a new `show` command.
func New() *cobra.Command {
	var configDir, output string
	var watch bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the data sync rules loaded from the configuration directory",
		Long: "Print every data sync rule in the configuration directory, in the\n" +
			"order they're loaded. Invalid files and records are logged and skipped.",
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			dir, err := util.ResolveConfigDir(configDir)
			if err != nil {
				util.HandleFatalError(err)
			}

			if err := run(dir, output, watch, stopSignal()); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	util.AddConfigDirFlag(cmd, &configDir)
	cmd.Flags().StringVarP(&output, "output", "o", outputTable,
		fmt.Sprintf("The output format. One of %q, %q or %q.",
			outputTable, outputJSON, outputYAML))
	cmd.Flags().BoolVarP(&watch, "watch", "w", false,
		"Keep running, and print the rules again whenever the configuration changes.")
	return cmd
}

func run(dir, output string, watch bool, stop <-chan struct{}) error {
	printRules, ok := printers[output]
	if !ok {
		return errors.NewFriendlyError("Unsupported output format %q. "+
			"Valid formats are %q, %q and %q.", output, outputTable, outputJSON, outputYAML)
	}

	store, _ := config.NewStore(dir)
	if err := printRules(stdout, store.Current()); err != nil {
		return errors.WithContext(err, "print")
	}

	if !watch {
		return nil
	}

	events, stopWatch, err := watchDir(dir)
	if err != nil {
		return errors.WithContext(err, "watch configuration directory")
	}
	defer func() {
		if err := stopWatch(); err != nil {
			log.WithError(err).Warn("Failed to stop watching the configuration directory")
		}
	}()

	for {
		select {
		case _, ok := <-events:
			if !ok {
				return nil
			}
			store.Reload()
			if err := printRules(stdout, store.Current()); err != nil {
				return errors.WithContext(err, "print")
			}
		case <-stop:
			return nil
		}
	}
}

func stopSignal() <-chan struct{} {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	stop := make(chan struct{})
	go func() {
		<-signals
		close(stop)
	}()
	return stop
}

func printTable(w io.Writer, agg config.Aggregate) error {
	out := tabwriter.NewWriter(w, 0, 10, 3, ' ', 0)
	fmt.Fprintln(out, "PATH\tDIRECTION\tTYPE\tPERIODICITY\tRETRY\tEXCLUDE\tINCLUDE")
	for _, rule := range agg.Rules() {
		periodicity := "-"
		if seconds, ok := rule.PeriodicitySeconds(); ok {
			periodicity = fmt.Sprintf("%ds", seconds)
		}

		retry := "default"
		if policy, ok := rule.Retry(); ok {
			retry = fmt.Sprintf("%d every %ds", policy.Attempts, policy.IntervalSeconds)
		}

		fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rule.Path(), rule.SyncDirection(), rule.SyncType(),
			periodicity, retry, listString(rule.ExcludeList()), listString(rule.IncludeList()))
	}
	return out.Flush()
}

func listString(list []string, ok bool) string {
	if !ok {
		return "-"
	}
	return "[" + strings.Join(list, ",") + "]"
}

func printJSON(w io.Writer, agg config.Aggregate) error {
	out, err := json.MarshalIndent(agg.Rules(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func printYAML(w io.Writer, agg config.Aggregate) error {
	out, err := yaml.Marshal(agg.Rules())
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
