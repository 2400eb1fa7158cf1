package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/datasync/pkg/errors"
)

const configDir = "/usr/share/phosphor-data-sync/data_sync_list"

func TestLoad(t *testing.T) {
	tests := []struct {
		name            string
		files           map[string]string
		dirs            []string
		expPaths        []string
		expSources      []string
		expSkipped      []SourceError
		expRejected     []string
		expErrorLogs    []string
		expWarningLogs  []string
		expReportIsGood bool
	}{
		{
			name: "SingleSource",
			files: map[string]string{
				"common.json": `{
					"Files": [
						{"Path": "/a", "SyncDirection": "Active2Passive", "SyncType": "Immediate"},
						{"Path": "/b", "SyncDirection": "Active2Passive", "SyncType": "Immediate"}
					],
					"Directories": [
						{"Path": "/c/", "SyncDirection": "Bidirectional", "SyncType": "Periodic", "Periodicity": "PT1M"}
					]
				}`,
			},
			expPaths:        []string{"/a", "/b", "/c/"},
			expSources:      []string{configDir + "/common.json"},
			expReportIsGood: true,
		},
		{
			name: "SortedByFileName",
			files: map[string]string{
				"b.json": `{"Files": [{"Path": "/from-b", "SyncDirection": "Active2Passive", "SyncType": "Immediate"}]}`,
				"a.json": `{"Directories": [{"Path": "/from-a/", "SyncDirection": "Active2Passive", "SyncType": "Immediate"}]}`,
			},
			expPaths:        []string{"/from-a/", "/from-b"},
			expSources:      []string{configDir + "/a.json", configDir + "/b.json"},
			expReportIsGood: true,
		},
		{
			name: "MalformedSource",
			files: map[string]string{
				"good.json": `{"Files": [{"Path": "/good", "SyncDirection": "Active2Passive", "SyncType": "Immediate"}]}`,
				"bad.json":  `{"Files": [`,
			},
			expPaths:     []string{"/good"},
			expSources:   []string{configDir + "/good.json"},
			expErrorLogs: []string{"Failed to parse the configuration file"},
		},
		{
			name: "EmptySource",
			files: map[string]string{
				"empty.json": " \n",
			},
			expSkipped: []SourceError{
				{Path: configDir + "/empty.json", Err: errors.ErrEmptySource},
			},
			expErrorLogs: []string{"Failed to parse the configuration file"},
		},
		{
			name: "InvalidRecordDoesntRejectSiblings",
			files: map[string]string{
				"common.json": `{
					"Files": [
						{"Path": "/a", "SyncDirection": "Active2Passive", "SyncType": "Immediate"},
						{"SyncDirection": "Active2Passive", "SyncType": "Immediate"},
						"/not-a-record",
						{"Path": "/b", "SyncDirection": "Active2Passive", "SyncType": "Immediate"}
					]
				}`,
			},
			expPaths:   []string{"/a", "/b"},
			expSources: []string{configDir + "/common.json"},
			expRejected: []string{
				configDir + "/common.json: Files[1]: missing required field: Path",
				configDir + "/common.json: Files[2]: invalid value for field Files: /not-a-record",
			},
			expErrorLogs: []string{"Skipping invalid sync record", "Skipping invalid sync record"},
		},
		{
			name: "DefaultedFieldsAreLoaded",
			files: map[string]string{
				"common.json": `{"Files": [{"Path": "/a", "SyncDirection": "Upwards", "SyncType": "Immediate"}]}`,
			},
			expPaths:        []string{"/a"},
			expSources:      []string{configDir + "/common.json"},
			expErrorLogs:    []string{"Unsupported sync direction, defaulting to Active2Passive"},
			expReportIsGood: true,
		},
		{
			name: "SkipsDirectories",
			files: map[string]string{
				"common.json":        `{"Files": [{"Path": "/a", "SyncDirection": "Active2Passive", "SyncType": "Immediate"}]}`,
				"nested/nested.json": `{"Files": [{"Path": "/nested", "SyncDirection": "Active2Passive", "SyncType": "Immediate"}]}`,
			},
			dirs:            []string{"nested", "empty"},
			expPaths:        []string{"/a"},
			expSources:      []string{configDir + "/common.json"},
			expReportIsGood: true,
		},
		{
			name: "EscapedSlashes",
			files: map[string]string{
				"common.json": `{"Files": [{"Path": "\/etc\/a", "SyncDirection": "Active2Passive", "SyncType": "Immediate"}]}`,
			},
			expPaths:        []string{"/etc/a"},
			expSources:      []string{configDir + "/common.json"},
			expReportIsGood: true,
		},
		{
			name: "YAMLSource",
			files: map[string]string{
				"common.yaml": "Files:\n" +
					"- Path: /etc/hostname\n" +
					"  SyncDirection: Passive2Active\n" +
					"  SyncType: Immediate\n",
			},
			expPaths:        []string{"/etc/hostname"},
			expSources:      []string{configDir + "/common.yaml"},
			expReportIsGood: true,
		},
		{
			name: "UnexpectedTopLevelField",
			files: map[string]string{
				"common.json": `{
					"Version": 2,
					"Files": [{"Path": "/a", "SyncDirection": "Active2Passive", "SyncType": "Immediate"}]
				}`,
			},
			expPaths:        []string{"/a"},
			expSources:      []string{configDir + "/common.json"},
			expWarningLogs:  []string{"Configuration file contains unexpected fields"},
			expReportIsGood: true,
		},
		{
			name:            "EmptyDirectory",
			expReportIsGood: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			fs = afero.NewMemMapFs()
			require.NoError(t, fs.MkdirAll(configDir, 0755))
			for _, dir := range test.dirs {
				require.NoError(t, fs.MkdirAll(configDir+"/"+dir, 0755))
			}
			for name, contents := range test.files {
				require.NoError(t, afero.WriteFile(fs, configDir+"/"+name, []byte(contents), 0644))
			}

			logHook := logrusTest.NewGlobal()
			agg, report := Load(configDir)

			var paths []string
			for _, rule := range agg.Rules() {
				paths = append(paths, rule.Path())
			}
			assert.Equal(t, test.expPaths, paths)
			assert.Equal(t, test.expSources, report.Sources)
			assert.NoError(t, report.DirErr)
			assert.Equal(t, test.expReportIsGood, report.OK())

			if test.expSkipped != nil {
				assert.Equal(t, test.expSkipped, report.SkippedSources)
			}

			var rejected []string
			for _, recordErr := range report.RejectedRecords {
				rejected = append(rejected, recordErr.String())
			}
			assert.Equal(t, test.expRejected, rejected)

			assert.Equal(t, test.expErrorLogs, messagesAtLevel(logHook, logrus.ErrorLevel))
			assert.Equal(t, test.expWarningLogs, messagesAtLevel(logHook, logrus.WarnLevel))
		})
	}
}

func TestLoadPreservesRecordFields(t *testing.T) {
	fs = afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, configDir+"/common.json", []byte(`{
		"Files": [
			{
				"Path": "/var/lib/app/state.json",
				"SyncDirection": "Bidirectional",
				"SyncType": "Periodic",
				"Periodicity": "PT2H",
				"RetryAttempts": 5,
				"RetryInterval": "PT45S"
			}
		],
		"Directories": [
			{
				"Path": "/var/lib/app/",
				"SyncDirection": "Active2Passive",
				"SyncType": "Immediate",
				"ExcludeFilesList": ["/var/lib/app/cache"]
			}
		]
	}`), 0644))

	agg := LoadAll(configDir)
	require.Equal(t, 2, agg.Len())

	file := agg.Rules()[0]
	assert.Equal(t, Bidirectional, file.SyncDirection())
	assert.Equal(t, Periodic, file.SyncType())
	periodicity, ok := file.PeriodicitySeconds()
	assert.True(t, ok)
	assert.Equal(t, uint16(7200), periodicity)
	retry, ok := file.Retry()
	assert.True(t, ok)
	assert.Equal(t, RetryPolicy{Attempts: 5, IntervalSeconds: 45}, retry)

	dir := agg.Rules()[1]
	_, ok = dir.PeriodicitySeconds()
	assert.False(t, ok)
	exclude, ok := dir.ExcludeList()
	assert.True(t, ok)
	assert.Equal(t, []string{"/var/lib/app/cache"}, exclude)
	_, ok = dir.IncludeList()
	assert.False(t, ok)

	assert.Len(t, agg.OfType(Periodic), 1)
	assert.Len(t, agg.OfType(Immediate), 1)
}

func TestLoadDirectoryErrors(t *testing.T) {
	fs = afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/datasync.json", []byte(`{}`), 0644))

	tests := []struct {
		name   string
		dir    string
		expErr error
	}{
		{
			name:   "MissingDirectory",
			dir:    "/does/not/exist",
			expErr: errors.FileNotFound{Path: "/does/not/exist"},
		},
		{
			name:   "NotADirectory",
			dir:    "/etc/datasync.json",
			expErr: errors.NotADirectory{Path: "/etc/datasync.json"},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			logHook := logrusTest.NewGlobal()

			agg, report := Load(test.dir)
			assert.Equal(t, 0, agg.Len())
			assert.Equal(t, test.expErr, report.DirErr)
			assert.False(t, report.OK())
			assert.Equal(t, []string{"Failed to read the data sync configuration directory"},
				messagesAtLevel(logHook, logrus.ErrorLevel))
		})
	}
}

func TestAggregateLog(t *testing.T) {
	logger, logHook := logrusTest.NewNullLogger()

	periodicity := uint16(90)
	agg := Aggregate{rules: []DataSyncConfig{
		{
			path:               "/var/log/",
			syncDirection:      Passive2Active,
			syncType:           Periodic,
			periodicitySeconds: &periodicity,
			includeList:        []string{"/var/log/a", "/var/log/b"},
		},
	}}
	agg.Log(logger)

	entry := logHook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Loaded data sync rule", entry.Message)
	assert.Equal(t, logrus.Fields{
		"rulePath":           "/var/log/",
		"syncDirection":      "Passive2Active",
		"syncType":           "Periodic",
		"periodicitySeconds": uint16(90),
		"includeList":        "/var/log/a, /var/log/b",
	}, entry.Data)
}

func messagesAtLevel(hook *logrusTest.Hook, level logrus.Level) (messages []string) {
	for _, entry := range hook.AllEntries() {
		if entry.Level == level {
			messages = append(messages, entry.Message)
		}
	}
	return messages
}
