// Package manifest parses plugin manifest records emitted by the companion
// extraction command and turns them into typed bundle descriptors.
//
// # Record Format
//
// The extraction command prints one JSON object per line on stdout, one per
// webpack bundle declared by the plugin:
//
//	{"name": "kolibri.plugins.learn", "entry_file": "assets/src/module.js",
//	 "stats_file": "build/stats.json", "module_path": "kolibri/plugins/learn"}
//	{"name": "kolibri.core.default_frontend", "entry_file": "assets/src/core.js",
//	 "stats_file": "build/core_stats.json", "module_path": "kolibri/core",
//	 "external": true, "core": true}
//
// # Validation Policy
//
// The two layers fail differently on purpose. A record missing a required
// field is dropped silently so a partially broken plugin tree still builds
// its valid subset. A line that is not valid JSON aborts the whole read:
// that means the extraction command itself is broken, which must never be
// papered over.
//
// # Usage
//
//	reader := manifest.NewReader(discoverer, logger)
//	bundles, externals, err := reader.Read(ctx, pluginDir, rootDir)
//	if err != nil {
//	    return err
//	}
package manifest
