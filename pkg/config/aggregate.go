package config

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// Aggregate is the ordered list of every sync rule loaded from a
// configuration directory. Rules are ordered by source file name, then by
// their position in the source, with "Files" entries before "Directories"
// entries. An Aggregate is never modified after loading, so it's safe for
// concurrent use.
type Aggregate struct {
	rules []DataSyncConfig
}

// Rules returns the rules in load order. The returned slice is a copy.
func (a Aggregate) Rules() []DataSyncConfig {
	return append([]DataSyncConfig{}, a.rules...)
}

// Len returns the number of rules.
func (a Aggregate) Len() int {
	return len(a.rules)
}

// OfType returns the rules with the given sync type, in load order.
func (a Aggregate) OfType(syncType SyncType) (rules []DataSyncConfig) {
	for _, rule := range a.rules {
		if rule.syncType == syncType {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Log writes a summary of every rule to `logger`.
func (a Aggregate) Log(logger log.FieldLogger) {
	for _, rule := range a.rules {
		fields := log.Fields{
			"rulePath":      rule.path,
			"syncDirection": rule.syncDirection.String(),
			"syncType":      rule.syncType.String(),
		}
		if periodicity, ok := rule.PeriodicitySeconds(); ok {
			fields["periodicitySeconds"] = periodicity
		}
		if retry, ok := rule.Retry(); ok {
			fields["retryAttempts"] = retry.Attempts
			fields["retryIntervalSeconds"] = retry.IntervalSeconds
		}
		if exclude, ok := rule.ExcludeList(); ok {
			fields["excludeList"] = strings.Join(exclude, ", ")
		}
		if include, ok := rule.IncludeList(); ok {
			fields["includeList"] = strings.Join(include, ", ")
		}
		logger.WithFields(fields).Info("Loaded data sync rule")
	}
}
