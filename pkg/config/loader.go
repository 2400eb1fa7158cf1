package config

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/datasync/pkg/errors"
)

// SourceError describes a configuration source that was skipped entirely.
type SourceError struct {
	Path string
	Err  error
}

// RecordError describes a single record that was rejected while the rest of
// its source was loaded.
type RecordError struct {
	Path    string
	Section string
	Index   int
	Err     error
}

func (err RecordError) String() string {
	return fmt.Sprintf("%s: %s[%d]: %s", err.Path, err.Section, err.Index, err.Err)
}

// Report describes what happened while loading a configuration directory.
// Every failure in it has already been logged.
type Report struct {
	Dir string

	// DirErr is set if the directory itself couldn't be listed.
	DirErr error

	// Sources are the files that were loaded, in load order.
	Sources []string

	SkippedSources  []SourceError
	RejectedRecords []RecordError
}

// OK returns whether everything in the directory was loaded.
func (r Report) OK() bool {
	return r.DirErr == nil && len(r.SkippedSources) == 0 && len(r.RejectedRecords) == 0
}

// LoadAll loads every sync rule in the configuration directory `dir`. It
// never fails: problems are logged, and whatever could be loaded is
// returned.
func LoadAll(dir string) Aggregate {
	agg, _ := Load(dir)
	return agg
}

// Load is like LoadAll, but also returns a report of what was skipped.
func Load(dir string) (Aggregate, Report) {
	report := Report{Dir: dir}
	var agg Aggregate

	entries, err := readConfigDir(dir)
	if err != nil {
		log.WithError(err).WithField("path", dir).Error(
			"Failed to read the data sync configuration directory")
		report.DirErr = err
		return agg, report
	}

	for _, entry := range entries {
		sourcePath := filepath.Join(dir, entry.Name())
		if !isRegularFile(sourcePath, entry) {
			log.WithField("path", sourcePath).Debug("Skipping non-regular file")
			continue
		}

		doc, err := readSource(sourcePath)
		if err != nil {
			log.WithError(err).WithField("path", sourcePath).Error(
				"Failed to parse the configuration file")
			report.SkippedSources = append(report.SkippedSources,
				SourceError{Path: sourcePath, Err: err})
			continue
		}
		report.Sources = append(report.Sources, sourcePath)

		agg.rules = append(agg.rules, parseSection(sourcePath, filesSection, doc.Files, &report)...)
		agg.rules = append(agg.rules, parseSection(sourcePath, directoriesSection, doc.Directories, &report)...)
	}

	agg.Log(log.StandardLogger())
	log.WithFields(log.Fields{
		"path":    dir,
		"rules":   agg.Len(),
		"skipped": len(report.SkippedSources) + len(report.RejectedRecords),
	}).Info("Loaded data sync configuration")
	return agg, report
}

// readConfigDir returns the entries of `dir`, sorted by name.
func readConfigDir(dir string) ([]os.FileInfo, error) {
	fi, err := fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound{Path: dir}
		}
		return nil, errors.WithContext(err, "stat")
	}

	if !fi.IsDir() {
		return nil, errors.NotADirectory{Path: dir}
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.WithContext(err, "read dir")
	}
	return entries, nil
}

// isRegularFile returns whether `entry` is a regular file, following
// symlinks.
func isRegularFile(path string, entry os.FileInfo) bool {
	if entry.Mode()&os.ModeSymlink != 0 {
		target, err := fs.Stat(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Debug("Failed to resolve symlink")
			return false
		}
		entry = target
	}
	return !entry.IsDir() && entry.Mode().IsRegular()
}

func parseSection(sourcePath, section string, records []interface{},
	report *Report) (rules []DataSyncConfig) {

	for i, record := range records {
		logger := log.WithFields(log.Fields{
			"path":    sourcePath,
			"section": section,
			"index":   i,
		})

		rule, err := parseRawRecord(record, section, logger)
		if err != nil {
			logger.WithError(err).Error("Skipping invalid sync record")
			report.RejectedRecords = append(report.RejectedRecords, RecordError{
				Path:    sourcePath,
				Section: section,
				Index:   i,
				Err:     err,
			})
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

func parseRawRecord(record interface{}, section string, logger log.FieldLogger) (DataSyncConfig, error) {
	raw, ok := record.(map[string]interface{})
	if !ok {
		return DataSyncConfig{}, errors.InvalidFieldError{Field: section, Value: record}
	}
	return parseRecord(raw, logger)
}
