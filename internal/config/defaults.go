package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Discovery defaults
	DefaultRoot             = "."
	DefaultPluginsDir       = "kolibri/plugins"
	DefaultDiscoveryCommand = "python"
	DefaultDiscoveryTimeout = 30 * time.Second

	// Concurrency defaults
	DefaultWorkers = 1

	// Output defaults
	DefaultOutputPath   = "./build/webpack.bundles.json"
	DefaultOutputFormat = "json"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// DefaultDiscoveryArgs are the fixed arguments passed to the default
// discovery command before the plugin directory
var DefaultDiscoveryArgs = []string{"-m", "kolibri.core.webpack_json"}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bundlescan"
	}
	return filepath.Join(home, ".bundlescan")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Root: DefaultRoot,
		Plugins: PluginsConfig{
			Dirs: []string{DefaultPluginsDir},
		},
		Discovery: DiscoveryConfig{
			Command: DefaultDiscoveryCommand,
			Args:    DefaultDiscoveryArgs,
			Timeout: DefaultDiscoveryTimeout,
		},
		Output: OutputConfig{
			Path:   DefaultOutputPath,
			Format: DefaultOutputFormat,
		},
		Workers: DefaultWorkers,
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
