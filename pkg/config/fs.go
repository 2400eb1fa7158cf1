package config

import "github.com/spf13/afero"

// fs backs every read the loader makes. Tests swap in afero.NewMemMapFs()
// so that configuration directories can be built in memory.
var fs = afero.NewOsFs()
