package domain

import "path/filepath"

// MarkerFilename is the fixed filename whose presence marks a directory as a
// plugin root. Its content is never read by the discovery pipeline; only its
// location matters.
const MarkerFilename = "kolibri_plugin.py"

// CoreLibraryName is the shared webpack library namespace that all
// core-flagged bundles are renamed to. Core plugins merge into one runtime
// library at link time instead of each exposing their own name.
const CoreLibraryName = "Kolibri"

// RawBundleRecord is one manifest record as emitted by the discovery
// process: a single JSON object on a single line of stdout. All fields are
// optional at this stage; validation happens in the parser.
type RawBundleRecord struct {
	Name       string `json:"name,omitempty"`
	EntryFile  string `json:"entry_file,omitempty"`
	StatsFile  string `json:"stats_file,omitempty"`
	ModulePath string `json:"module_path,omitempty"`
	External   bool   `json:"external,omitempty"`
	Core       bool   `json:"core,omitempty"`
}

// Complete reports whether all required fields are present. Records that are
// not complete are dropped by the parser rather than treated as errors.
func (r RawBundleRecord) Complete() bool {
	return r.Name != "" && r.EntryFile != "" && r.StatsFile != "" && r.ModulePath != ""
}

// BundleDescriptor is a validated, build-ready description of one webpack
// entry point. Created once per valid record and never mutated afterwards.
type BundleDescriptor struct {
	// Name is the dotted plugin identifier from the manifest.
	Name string
	// Library is the exposed library name: CoreLibraryName for core
	// bundles, Name otherwise.
	Library string
	// Entry is the absolute path to the bundle's entry file.
	Entry string
	// StatsFile is the absolute path the bundler writes build stats to.
	StatsFile string
	// ModulePath is the manifest's module path relative to the root dir.
	ModulePath string
	// Core marks bundles that share the common library namespace.
	Core bool
}

// ExternalDescriptor marks a named library as externally resolvable rather
// than inlined into a bundle. Present only for external-flagged records.
type ExternalDescriptor struct {
	Name    string
	Library string
	Entry   string
}

// ResolvePath joins a manifest-relative path onto the root directory and the
// record's module path. Descriptor paths are always resolved this way so the
// bundler never depends on the process working directory.
func ResolvePath(rootDir, modulePath, rel string) string {
	return filepath.Join(rootDir, modulePath, rel)
}
