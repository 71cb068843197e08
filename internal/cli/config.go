package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/quantita/internal/paths"
	"github.com/mesh-intelligence/quantita/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyCaseSensitive = "search.case_sensitive"
	cfgKeyLogLevel      = "log.level"

	envLogLevel = "QUANTITA_LOG_LEVEL"

	defaultLogLevel = "warn"
)

// configFile is the structure written to config.yaml by init.
type configFile struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir,omitempty"`
	Search  struct {
		CaseSensitive bool `yaml:"case_sensitive"`
	} `yaml:"search"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

const configHeader = "# quantita configuration\n# data_dir may be overridden with --data-dir or QUANTITA_DATA_DIR.\n"

// settings is the resolved configuration for one command run.
type settings struct {
	Store    types.Config
	LogLevel string
}

// loadConfig reads config.yaml from configDir using Viper.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyCaseSensitive, false)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	if err := v.BindEnv(cfgKeyLogLevel, envLogLevel); err != nil {
		return nil, fmt.Errorf("bind %s: %w", envLogLevel, err)
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// loadSettings merges config.yaml, environment and flags.
func loadSettings(configDir string, flags rootFlags) (settings, error) {
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}

	logLevel := flags.logLevel
	if logLevel == "" {
		logLevel = v.GetString(cfgKeyLogLevel)
	}

	return settings{
		Store: types.Config{
			Backend:             v.GetString(cfgKeyBackend),
			DataDir:             dataDir,
			CaseSensitiveSearch: v.GetBool(cfgKeyCaseSensitive),
		},
		LogLevel: logLevel,
	}, nil
}

// writeConfigIfMissing creates config.yaml in configDir with default values
// if the file does not exist. Returns the file path and whether it was
// written.
func writeConfigIfMissing(configDir, dataDir string) (string, bool, error) {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return path, false, nil
	}
	if !os.IsNotExist(err) {
		return path, false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return path, false, fmt.Errorf("create config dir: %w", err)
	}

	var cfg configFile
	cfg.Backend = types.BackendSQLite
	cfg.DataDir = dataDir
	cfg.Log.Level = defaultLogLevel

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return path, false, fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return path, false, fmt.Errorf("write config: %w", err)
	}
	return path, true, nil
}
