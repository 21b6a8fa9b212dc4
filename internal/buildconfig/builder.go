// Package buildconfig turns discovered bundle descriptors into the entry
// configuration consumed by the webpack build.
package buildconfig

import (
	"path/filepath"

	"github.com/learningequality/bundlescan/internal/domain"
)

// CoreAlias is the import alias every bundle resolves to the shared core
// module, so plugins can `require("kolibri_module")` without knowing where
// the tree is checked out.
const CoreAlias = "kolibri_module"

// coreModulePath is the fixed location of the shared core module, relative
// to the root directory.
const coreModulePath = "kolibri/core/assets/src/kolibri_module"

// EntryConfig is one webpack entry-point configuration.
type EntryConfig struct {
	Name      string            `json:"name" yaml:"name"`
	Entry     string            `json:"entry" yaml:"entry"`
	Library   string            `json:"library" yaml:"library"`
	StatsFile string            `json:"stats_file" yaml:"stats_file"`
	Aliases   map[string]string `json:"aliases" yaml:"aliases"`
}

// Config is the full hand-off structure for the webpack build: one entry per
// bundle, in discovery order, plus the externally resolvable libraries.
type Config struct {
	Entries   []EntryConfig     `json:"entries" yaml:"entries"`
	Externals map[string]string `json:"externals,omitempty" yaml:"externals,omitempty"`
}

// Builder assembles webpack configuration from descriptors.
type Builder struct {
	rootDir string
}

// NewBuilder creates a builder rooted at rootDir
func NewBuilder(rootDir string) *Builder {
	return &Builder{rootDir: rootDir}
}

// Build produces one entry config per bundle descriptor and an externals map
// marking external-flagged libraries as resolvable at runtime instead of
// bundled inline.
func (b *Builder) Build(bundles []domain.BundleDescriptor, externals map[string]domain.ExternalDescriptor) *Config {
	cfg := &Config{
		Entries:   make([]EntryConfig, 0, len(bundles)),
		Externals: map[string]string{},
	}

	aliases := map[string]string{
		CoreAlias: filepath.Join(b.rootDir, coreModulePath),
	}

	for _, bundle := range bundles {
		cfg.Entries = append(cfg.Entries, EntryConfig{
			Name:      bundle.Name,
			Entry:     bundle.Entry,
			Library:   bundle.Library,
			StatsFile: bundle.StatsFile,
			Aliases:   aliases,
		})
	}

	for name, ext := range externals {
		cfg.Externals[name] = ext.Library
	}

	return cfg
}
