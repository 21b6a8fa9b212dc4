package manifest

import (
	"github.com/learningequality/bundlescan/internal/domain"
)

// Parse validates one raw bundle record against the required fields and
// builds its descriptors. It returns (nil, nil) when any of name,
// entry_file, stats_file or module_path is missing: incomplete manifests are
// excluded from the build rather than aborting discovery.
//
// On success the bundle descriptor is always produced; the external
// descriptor only when the record carries the external flag. Core-flagged
// records have their exposed library name forced to domain.CoreLibraryName
// so every core plugin links into the same runtime namespace.
func Parse(rec domain.RawBundleRecord, rootDir string) (*domain.BundleDescriptor, *domain.ExternalDescriptor) {
	if !rec.Complete() {
		return nil, nil
	}

	library := rec.Name
	if rec.Core {
		library = domain.CoreLibraryName
	}

	bundle := &domain.BundleDescriptor{
		Name:       rec.Name,
		Library:    library,
		Entry:      domain.ResolvePath(rootDir, rec.ModulePath, rec.EntryFile),
		StatsFile:  domain.ResolvePath(rootDir, rec.ModulePath, rec.StatsFile),
		ModulePath: rec.ModulePath,
		Core:       rec.Core,
	}

	if !rec.External {
		return bundle, nil
	}

	external := &domain.ExternalDescriptor{
		Name:    rec.Name,
		Library: library,
		Entry:   bundle.Entry,
	}
	return bundle, external
}
