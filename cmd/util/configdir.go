package util

import (
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/sidkik/datasync/pkg/errors"
	"github.com/sidkik/datasync/pkg/version"
)

// configDirFlag is the name of the flag that overrides the configuration
// directory.
const configDirFlag = "config-dir"

// homedirExpand will be overridden in mock tests.
var homedirExpand = homedir.Expand

// AddConfigDirFlag registers the `--config-dir` flag on `cmd`, storing its
// value in `dir`.
func AddConfigDirFlag(cmd *cobra.Command, dir *string) {
	cmd.Flags().StringVar(dir, configDirFlag, version.DefaultConfigDir,
		"The directory containing the data sync configuration files.")
}

// ResolveConfigDir expands a leading `~` in `dir` to the user's home
// directory.
func ResolveConfigDir(dir string) (string, error) {
	expanded, err := homedirExpand(dir)
	if err != nil {
		return "", errors.WithContext(err, "expand home directory")
	}
	return expanded, nil
}
