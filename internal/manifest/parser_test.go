package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learningequality/bundlescan/internal/domain"
)

const testRoot = "/srv/kolibri"

func completeRecord() domain.RawBundleRecord {
	return domain.RawBundleRecord{
		Name:       "kolibri.plugins.learn",
		EntryFile:  "assets/src/module.js",
		StatsFile:  "build/stats.json",
		ModulePath: "kolibri/plugins/learn",
	}
}

func TestParse_MissingFieldDropsRecord(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.RawBundleRecord)
	}{
		{"missing name", func(r *domain.RawBundleRecord) { r.Name = "" }},
		{"missing entry_file", func(r *domain.RawBundleRecord) { r.EntryFile = "" }},
		{"missing stats_file", func(r *domain.RawBundleRecord) { r.StatsFile = "" }},
		{"missing module_path", func(r *domain.RawBundleRecord) { r.ModulePath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := completeRecord()
			tt.mutate(&rec)

			bundle, external := Parse(rec, testRoot)

			assert.Nil(t, bundle)
			assert.Nil(t, external)
		})
	}
}

func TestParse_CompleteRecord(t *testing.T) {
	bundle, external := Parse(completeRecord(), testRoot)

	require.NotNil(t, bundle)
	assert.Nil(t, external)

	assert.Equal(t, "kolibri.plugins.learn", bundle.Name)
	assert.Equal(t, "kolibri.plugins.learn", bundle.Library)
	assert.Equal(t, filepath.Join(testRoot, "kolibri/plugins/learn", "assets/src/module.js"), bundle.Entry)
	assert.Equal(t, filepath.Join(testRoot, "kolibri/plugins/learn", "build/stats.json"), bundle.StatsFile)
	assert.Equal(t, "kolibri/plugins/learn", bundle.ModulePath)
	assert.False(t, bundle.Core)
}

func TestParse_ExternalRecordYieldsBoth(t *testing.T) {
	rec := completeRecord()
	rec.External = true

	bundle, external := Parse(rec, testRoot)

	require.NotNil(t, bundle)
	require.NotNil(t, external)
	assert.Equal(t, bundle.Name, external.Name)
	assert.Equal(t, bundle.Library, external.Library)
	assert.Equal(t, bundle.Entry, external.Entry)
}

func TestParse_CoreForcesLibraryName(t *testing.T) {
	rec := completeRecord()
	rec.Name = "kolibri.core.default_frontend"
	rec.Core = true

	bundle, _ := Parse(rec, testRoot)

	require.NotNil(t, bundle)
	assert.Equal(t, "kolibri.core.default_frontend", bundle.Name)
	assert.Equal(t, domain.CoreLibraryName, bundle.Library)
	assert.True(t, bundle.Core)
}

func TestParse_CoreAndExternalShareLibraryName(t *testing.T) {
	rec := completeRecord()
	rec.Core = true
	rec.External = true

	bundle, external := Parse(rec, testRoot)

	require.NotNil(t, bundle)
	require.NotNil(t, external)
	assert.Equal(t, domain.CoreLibraryName, bundle.Library)
	assert.Equal(t, domain.CoreLibraryName, external.Library)
}
