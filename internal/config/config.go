package config

import "time"

// Config represents the application configuration
type Config struct {
	Root      string          `mapstructure:"root" yaml:"root"`
	Plugins   PluginsConfig   `mapstructure:"plugins" yaml:"plugins"`
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Workers   int             `mapstructure:"workers" yaml:"workers"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// PluginsConfig contains the directories scanned for plugin roots
type PluginsConfig struct {
	Dirs []string `mapstructure:"dirs" yaml:"dirs"`
}

// DiscoveryConfig contains settings for the manifest extraction command
type DiscoveryConfig struct {
	Command string        `mapstructure:"command" yaml:"command"`
	Args    []string      `mapstructure:"args" yaml:"args"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Path      string `mapstructure:"path" yaml:"path"`
	Format    string `mapstructure:"format" yaml:"format"`
	Overwrite bool   `mapstructure:"overwrite" yaml:"overwrite"`
	DryRun    bool   `mapstructure:"dry_run" yaml:"dry_run"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration, repairing invalid values with
// defaults
func (c *Config) Validate() error {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if len(c.Plugins.Dirs) == 0 {
		c.Plugins.Dirs = []string{DefaultPluginsDir}
	}
	if c.Discovery.Command == "" {
		c.Discovery.Command = DefaultDiscoveryCommand
		c.Discovery.Args = DefaultDiscoveryArgs
	}
	if c.Discovery.Timeout < 0 {
		c.Discovery.Timeout = DefaultDiscoveryTimeout
	}
	if c.Workers < 1 {
		c.Workers = DefaultWorkers
	}
	if c.Output.Path == "" {
		c.Output.Path = DefaultOutputPath
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultOutputFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	return nil
}
