package version

// EmptyValue is the value we use when running a version that wasn't compiled
// by `make`. This is helpful for telling when we're running in a unit test.
const EmptyValue = "set-by-make"

// Version is the latest tag on git for releases. On non-release commits, it may
// include additional information such as the most recent commit hash.
var Version = EmptyValue

// DefaultConfigDir is the directory the data sync configuration is read from
// when none is given on the command line. Packagers can override it at link
// time.
var DefaultConfigDir = "/usr/share/phosphor-data-sync/data_sync_list"
