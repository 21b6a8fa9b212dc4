package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults
// Uses the global viper instance to access CLI flag bindings
func Load() (*Config, error) {
	v := viper.GetViper()
	return loadWith(v)
}

// LoadWithViper loads configuration on a fresh viper instance and returns it
// alongside the config, useful in tests that must not touch global state
func LoadWithViper() (*Config, *viper.Viper, error) {
	v := viper.New()
	cfg, err := loadWith(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func loadWith(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (BUNDLESCAN_*)
	v.SetEnvPrefix("BUNDLESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("root", DefaultRoot)
	v.SetDefault("plugins.dirs", []string{DefaultPluginsDir})
	v.SetDefault("discovery.command", DefaultDiscoveryCommand)
	v.SetDefault("discovery.args", DefaultDiscoveryArgs)
	v.SetDefault("discovery.timeout", DefaultDiscoveryTimeout)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("output.path", DefaultOutputPath)
	v.SetDefault("output.format", DefaultOutputFormat)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
