package config

import (
	"math"
	"sort"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/sidkik/datasync/pkg/errors"
)

// Keys of a sync record in a configuration file.
const (
	pathKey          = "Path"
	syncDirectionKey = "SyncDirection"
	syncTypeKey      = "SyncType"
	periodicityKey   = "Periodicity"
	retryAttemptsKey = "RetryAttempts"
	retryIntervalKey = "RetryInterval"
	excludeListKey   = "ExcludeFilesList"
	includeListKey   = "IncludeFilesList"
)

var knownRecordKeys = map[string]struct{}{
	pathKey:          {},
	syncDirectionKey: {},
	syncTypeKey:      {},
	periodicityKey:   {},
	retryAttemptsKey: {},
	retryIntervalKey: {},
	excludeListKey:   {},
	includeListKey:   {},
}

const (
	// DefaultPeriodicitySeconds is used for Periodic rules whose periodicity
	// is missing or malformed.
	DefaultPeriodicitySeconds uint16 = 60

	// DefaultRetryIntervalSeconds is used for rules with a custom retry
	// policy whose interval is malformed.
	DefaultRetryIntervalSeconds uint16 = 30
)

// ParseRecord converts one raw record from a configuration file into a
// DataSyncConfig. Unrecognized enum values and malformed durations are
// logged and replaced by their defaults. An error is only returned when the
// record can't be used at all, such as when the path is missing.
func ParseRecord(raw map[string]interface{}) (DataSyncConfig, error) {
	return parseRecord(raw, log.StandardLogger())
}

func parseRecord(raw map[string]interface{}, logger log.FieldLogger) (DataSyncConfig, error) {
	path, err := parsePath(raw)
	if err != nil {
		return DataSyncConfig{}, err
	}
	logger = logger.WithField("rulePath", path)

	for _, key := range unknownKeys(raw) {
		logger.WithField("field", key).Warn("Ignoring unknown field in sync record")
	}

	cfg := DataSyncConfig{
		path:          path,
		syncDirection: parseDirectionField(raw, logger),
		syncType:      parseTypeField(raw, logger),
	}

	if cfg.syncType == Periodic {
		periodicity := parseDurationField(raw, periodicityKey, DefaultPeriodicitySeconds, logger)
		cfg.periodicitySeconds = &periodicity
	}

	_, hasAttempts := raw[retryAttemptsKey]
	_, hasInterval := raw[retryIntervalKey]
	if hasAttempts && hasInterval {
		attempts, err := parseAttempts(raw[retryAttemptsKey])
		if err != nil {
			return DataSyncConfig{}, err
		}
		cfg.retry = &RetryPolicy{
			Attempts:        attempts,
			IntervalSeconds: parseDurationField(raw, retryIntervalKey, DefaultRetryIntervalSeconds, logger),
		}
	}

	if cfg.excludeList, err = parseList(raw, excludeListKey); err != nil {
		return DataSyncConfig{}, err
	}
	if cfg.includeList, err = parseList(raw, includeListKey); err != nil {
		return DataSyncConfig{}, err
	}
	return cfg, nil
}

func parsePath(raw map[string]interface{}) (string, error) {
	value, ok := raw[pathKey]
	if !ok || value == nil {
		return "", errors.MissingFieldError{Field: pathKey}
	}

	switch value.(type) {
	case map[string]interface{}, []interface{}:
		return "", errors.InvalidFieldError{Field: pathKey, Value: value}
	}

	path, err := cast.ToStringE(value)
	if err != nil {
		return "", errors.InvalidFieldError{Field: pathKey, Value: value}
	}
	if path == "" {
		return "", errors.InvalidFieldError{Field: pathKey, Value: value}
	}
	return path, nil
}

func parseDirectionField(raw map[string]interface{}, logger log.FieldLogger) SyncDirection {
	value, ok := raw[syncDirectionKey]
	if !ok {
		logger.WithField("field", syncDirectionKey).Errorf(
			"Missing sync direction, defaulting to %s", Active2Passive)
		return Active2Passive
	}

	if str, isString := value.(string); isString {
		if direction, ok := ParseSyncDirection(str); ok {
			return direction
		}
	}

	logger.WithFields(log.Fields{
		"field": syncDirectionKey,
		"value": value,
	}).Errorf("Unsupported sync direction, defaulting to %s", Active2Passive)
	return Active2Passive
}

func parseTypeField(raw map[string]interface{}, logger log.FieldLogger) SyncType {
	value, ok := raw[syncTypeKey]
	if !ok {
		logger.WithField("field", syncTypeKey).Errorf(
			"Missing sync type, defaulting to %s", Immediate)
		return Immediate
	}

	if str, isString := value.(string); isString {
		if syncType, ok := ParseSyncType(str); ok {
			return syncType
		}
	}

	logger.WithFields(log.Fields{
		"field": syncTypeKey,
		"value": value,
	}).Errorf("Unsupported sync type, defaulting to %s", Immediate)
	return Immediate
}

// parseDurationField returns the number of seconds in the ISO 8601 duration
// stored under `key`, or `def` if it's missing or malformed.
func parseDurationField(raw map[string]interface{}, key string, def uint16,
	logger log.FieldLogger) uint16 {

	value, ok := raw[key]
	if !ok {
		logger.WithField("field", key).Errorf("Missing duration, defaulting to %d seconds", def)
		return def
	}

	if str, isString := value.(string); isString {
		if seconds, ok := ParseISODuration(str); ok {
			return seconds
		}
	}

	logger.WithFields(log.Fields{
		"field": key,
		"value": value,
	}).Errorf("Duration doesn't match the ISO 8601 format [PTnHnMnS], "+
		"defaulting to %d seconds", def)
	return def
}

func parseAttempts(value interface{}) (int, error) {
	switch v := value.(type) {
	case nil, bool, map[string]interface{}, []interface{}:
		return 0, errors.InvalidFieldError{Field: retryAttemptsKey, Value: value}
	case float64:
		// -math.MinInt is the first value past math.MaxInt, and is exact as a
		// float64, unlike math.MaxInt itself.
		if v != math.Trunc(v) || v < math.MinInt || v >= -math.MinInt {
			return 0, errors.InvalidFieldError{Field: retryAttemptsKey, Value: value}
		}
	case string:
		// Decimal only, so "08" is 8 rather than a malformed octal literal.
		attempts, err := strconv.Atoi(v)
		if err != nil {
			return 0, errors.InvalidFieldError{Field: retryAttemptsKey, Value: value}
		}
		return attempts, nil
	}

	attempts, err := cast.ToIntE(value)
	if err != nil {
		return 0, errors.InvalidFieldError{Field: retryAttemptsKey, Value: value}
	}
	return attempts, nil
}

// parseList returns the list of strings stored under `key`. The returned
// slice is nil if the key isn't set.
func parseList(raw map[string]interface{}, key string) ([]string, error) {
	value, ok := raw[key]
	if !ok {
		return nil, nil
	}

	items, ok := value.([]interface{})
	if !ok {
		return nil, errors.InvalidFieldError{Field: key, Value: value}
	}

	list := make([]string, 0, len(items))
	for _, item := range items {
		str, ok := item.(string)
		if !ok {
			return nil, errors.InvalidFieldError{Field: key, Value: value}
		}
		list = append(list, str)
	}
	return list, nil
}

func unknownKeys(raw map[string]interface{}) (keys []string) {
	for key := range raw {
		if _, ok := knownRecordKeys[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
