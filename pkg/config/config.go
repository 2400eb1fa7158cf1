package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/ghodss/yaml"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/datasync/pkg/errors"
)

// parseConfigErrTemplate is used when a configuration source can't be
// decoded. The yaml library constructs errors in a way that loses context,
// so we can only pass the error message on.
const parseConfigErrTemplate = "Data sync configuration file could not be parsed. " +
	"Please review %q.\n" +
	"For reference, here is the error from the parser:\n" +
	"%s"

// Sections of a configuration source that hold sync records.
const (
	filesSection       = "Files"
	directoriesSection = "Directories"
)

// sourceDocument is the top level of a configuration source. Elements are
// decoded lazily so that one malformed record doesn't reject its siblings.
type sourceDocument struct {
	Files       []interface{} `json:"Files,omitempty"`
	Directories []interface{} `json:"Directories,omitempty"`
}

// readSource reads and decodes the configuration source at `path`. Sources
// are JSON documents. Anything that isn't valid JSON is decoded as YAML, so
// YAML sources are accepted as well.
func readSource(path string) (sourceDocument, error) {
	configBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return sourceDocument{}, errors.FileNotFound{Path: path}
		}
		return sourceDocument{}, errors.WithContext(err, "read file")
	}

	if len(bytes.TrimSpace(configBytes)) == 0 {
		return sourceDocument{}, errors.ErrEmptySource
	}

	decode, decodeStrict := decodeYAML, decodeYAMLStrict
	if json.Valid(configBytes) {
		// Valid JSON isn't always valid YAML. For example, YAML rejects the
		// `\/` escape.
		decode, decodeStrict = json.Unmarshal, decodeJSONStrict
	}

	var doc sourceDocument
	if err := decode(configBytes, &doc); err != nil {
		return sourceDocument{}, errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}

	// Do a strict unmarshal to check for extra top-level fields. They're only
	// worth a warning, so the lenient result is what gets used.
	var strict sourceDocument
	if err := decodeStrict(configBytes, &strict); err != nil {
		log.WithError(err).WithField("path", path).Warn(
			"Configuration file contains unexpected fields")
	}
	return doc, nil
}

func decodeYAML(configBytes []byte, doc interface{}) error {
	return yaml.Unmarshal(configBytes, doc)
}

func decodeYAMLStrict(configBytes []byte, doc interface{}) error {
	return yaml.UnmarshalStrict(configBytes, doc, yaml.DisallowUnknownFields)
}

func decodeJSONStrict(configBytes []byte, doc interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(configBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(doc)
}
