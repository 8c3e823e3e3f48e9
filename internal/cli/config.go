package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/xmptree/internal/paths"
	"github.com/mesh-intelligence/xmptree/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// Config keys.
	cfgKeySidecarSuffix = "sidecar_suffix"
	cfgKeyLogLevel      = "log_level"
	cfgKeyNamespaces    = "namespaces"

	defaultLogLevel = "warn"

	// envPrefix exposes every key as XMP_<KEY>, e.g. XMP_LOG_LEVEL.
	envPrefix = "XMP"
)

// namespaceEntry is one preregistered namespace binding.
type namespaceEntry struct {
	URI    string `mapstructure:"uri" yaml:"uri"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

// configFile is the structure of config.yaml.
type configFile struct {
	SidecarSuffix string           `mapstructure:"sidecar_suffix" yaml:"sidecar_suffix"`
	LogLevel      string           `mapstructure:"log_level" yaml:"log_level"`
	Namespaces    []namespaceEntry `mapstructure:"namespaces" yaml:"namespaces"`
}

// defaultConfig is written to config.yaml on first run.
func defaultConfig() configFile {
	return configFile{
		SidecarSuffix: types.DefaultSidecarSuffix,
		LogLevel:      defaultLogLevel,
		Namespaces:    []namespaceEntry{},
	}
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run.
func loadConfig(configDir string) (configFile, error) {
	var cfg configFile
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return cfg, fmt.Errorf("ensure config dir: %w", err)
	}
	if _, err := writeConfigIfMissing(paths.ConfigFile(configDir)); err != nil {
		return cfg, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeySidecarSuffix, types.DefaultSidecarSuffix)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.SidecarSuffix = v.GetString(cfgKeySidecarSuffix)
	cfg.LogLevel = v.GetString(cfgKeyLogLevel)
	if err := v.UnmarshalKey(cfgKeyNamespaces, &cfg.Namespaces); err != nil {
		return cfg, fmt.Errorf("read %s: %w", cfgKeyNamespaces, err)
	}

	if cfg.SidecarSuffix != "" && !strings.HasPrefix(cfg.SidecarSuffix, ".") {
		return cfg, fmt.Errorf("%s %q: %w", cfgKeySidecarSuffix, cfg.SidecarSuffix, types.ErrSidecarSuffixInvalid)
	}
	for _, ns := range cfg.Namespaces {
		if ns.URI == "" || ns.Prefix == "" {
			return cfg, fmt.Errorf("%s: entries need both uri and prefix", cfgKeyNamespaces)
		}
	}
	return cfg, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist and reports whether it did.
func writeConfigIfMissing(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(defaultConfig())
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# xmp command configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
