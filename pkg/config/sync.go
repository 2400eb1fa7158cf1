package config

import (
	"encoding/json"
	"fmt"
)

// SyncDirection describes which controller role is the source of truth for
// a path.
type SyncDirection int

const (
	// Active2Passive syncs from the active controller to the passive one.
	Active2Passive SyncDirection = iota
	// Passive2Active syncs from the passive controller to the active one.
	Passive2Active
	// Bidirectional syncs in both directions.
	Bidirectional
)

var syncDirectionNames = map[SyncDirection]string{
	Active2Passive: "Active2Passive",
	Passive2Active: "Passive2Active",
	Bidirectional:  "Bidirectional",
}

// String returns the literal used for the direction in configuration files.
func (d SyncDirection) String() string {
	if name, ok := syncDirectionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("SyncDirection(%d)", int(d))
}

// MarshalText implements encoding.TextMarshaler.
func (d SyncDirection) MarshalText() ([]byte, error) {
	if _, ok := syncDirectionNames[d]; !ok {
		return nil, fmt.Errorf("unknown sync direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// ParseSyncDirection looks up a direction by its exact, case-sensitive
// literal.
func ParseSyncDirection(s string) (SyncDirection, bool) {
	for direction, name := range syncDirectionNames {
		if name == s {
			return direction, true
		}
	}
	return Active2Passive, false
}

// SyncType describes what triggers the sync of a path.
type SyncType int

const (
	// Immediate syncs as soon as a change notification arrives for the path.
	Immediate SyncType = iota
	// Periodic syncs on a timer.
	Periodic
)

var syncTypeNames = map[SyncType]string{
	Immediate: "Immediate",
	Periodic:  "Periodic",
}

// String returns the literal used for the type in configuration files.
func (t SyncType) String() string {
	if name, ok := syncTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SyncType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t SyncType) MarshalText() ([]byte, error) {
	if _, ok := syncTypeNames[t]; !ok {
		return nil, fmt.Errorf("unknown sync type %d", int(t))
	}
	return []byte(t.String()), nil
}

// ParseSyncType looks up a sync type by its exact, case-sensitive literal.
func ParseSyncType(s string) (SyncType, bool) {
	for syncType, name := range syncTypeNames {
		if name == s {
			return syncType, true
		}
	}
	return Immediate, false
}

// RetryPolicy is a custom retry preference for a single file or directory.
type RetryPolicy struct {
	Attempts        int
	IntervalSeconds uint16
}

// DataSyncConfig is one validated synchronization rule. Values are only
// created by ParseRecord and never change afterwards, so they can be shared
// freely between goroutines.
type DataSyncConfig struct {
	path          string
	syncDirection SyncDirection
	syncType      SyncType

	// Only set when syncType is Periodic.
	periodicitySeconds *uint16

	retry *RetryPolicy

	// A nil slice means the list wasn't supplied. An empty, non-nil slice
	// means it was supplied but empty.
	excludeList []string
	includeList []string
}

// Path returns the file or directory that the rule synchronizes.
func (c DataSyncConfig) Path() string {
	return c.path
}

// SyncDirection returns which controller pushes the data.
func (c DataSyncConfig) SyncDirection() SyncDirection {
	return c.syncDirection
}

// SyncType returns what triggers the sync.
func (c DataSyncConfig) SyncType() SyncType {
	return c.syncType
}

// PeriodicitySeconds returns the sync interval of Periodic rules. The
// boolean is false for every other sync type.
func (c DataSyncConfig) PeriodicitySeconds() (uint16, bool) {
	if c.periodicitySeconds == nil {
		return 0, false
	}
	return *c.periodicitySeconds, true
}

// Retry returns the custom retry policy, if the rule has one. Rules without
// one use the sync engine's default.
func (c DataSyncConfig) Retry() (RetryPolicy, bool) {
	if c.retry == nil {
		return RetryPolicy{}, false
	}
	return *c.retry, true
}

// ExcludeList returns a copy of the paths to exclude from the sync.
func (c DataSyncConfig) ExcludeList() ([]string, bool) {
	return copyList(c.excludeList)
}

// IncludeList returns a copy of the only paths to include in the sync.
func (c DataSyncConfig) IncludeList() ([]string, bool) {
	return copyList(c.includeList)
}

func copyList(list []string) ([]string, bool) {
	if list == nil {
		return nil, false
	}
	return append([]string{}, list...), true
}

// dataSyncConfigJSON is the serialized form of a DataSyncConfig. Keys follow
// the configuration file format, except that durations are already resolved
// to seconds.
type dataSyncConfigJSON struct {
	Path                 string        `json:"Path"`
	SyncDirection        SyncDirection `json:"SyncDirection"`
	SyncType             SyncType      `json:"SyncType"`
	PeriodicitySeconds   *uint16       `json:"PeriodicitySeconds,omitempty"`
	RetryAttempts        *int          `json:"RetryAttempts,omitempty"`
	RetryIntervalSeconds *uint16       `json:"RetryIntervalSeconds,omitempty"`
	ExcludeFilesList     *[]string     `json:"ExcludeFilesList,omitempty"`
	IncludeFilesList     *[]string     `json:"IncludeFilesList,omitempty"`
}

// MarshalJSON implements json.Marshaler. Absent optional fields are
// omitted.
func (c DataSyncConfig) MarshalJSON() ([]byte, error) {
	out := dataSyncConfigJSON{
		Path:               c.path,
		SyncDirection:      c.syncDirection,
		SyncType:           c.syncType,
		PeriodicitySeconds: c.periodicitySeconds,
	}
	if c.retry != nil {
		attempts, interval := c.retry.Attempts, c.retry.IntervalSeconds
		out.RetryAttempts = &attempts
		out.RetryIntervalSeconds = &interval
	}
	if exclude, ok := c.ExcludeList(); ok {
		out.ExcludeFilesList = &exclude
	}
	if include, ok := c.IncludeList(); ok {
		out.IncludeFilesList = &include
	}
	return json.Marshal(out)
}
