package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/crate/internal/logging"
	"github.com/mesh-intelligence/crate/internal/paths"
	"github.com/mesh-intelligence/crate/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "CRATE"
)

// Config keys.
const (
	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyDSN         = "dsn"
	cfgKeyBusyTimeout = "busy_timeout"
	cfgKeyCacheTTL    = "cache_ttl"
	cfgKeyLogLevel    = "log_level"
	cfgKeyLogFormat   = "log_format"
)

// configHeader precedes the generated config.yaml.
const configHeader = `# crate configuration
# Every key can be overridden by an environment variable, e.g. CRATE_BACKEND.
# backend is sqlite (embedded, stored under data_dir) or postgres (set dsn).
`

// configFile holds the structure written to config.yaml on first run.
type configFile struct {
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir,omitempty"`
	DSN         string `yaml:"dsn,omitempty"`
	BusyTimeout string `yaml:"busy_timeout"`
	CacheTTL    string `yaml:"cache_ttl"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

func defaultConfigFile(dataDir string) configFile {
	return configFile{
		Backend:     types.BackendSQLite,
		DataDir:     dataDir,
		BusyTimeout: types.DefaultBusyTimeout.String(),
		CacheTTL:    "0s",
		LogLevel:    "warn",
		LogFormat:   logging.FormatConsole,
	}
}

// loadConfig resolves the config directory, writes a default config.yaml on
// first run and reads it with viper. Environment variables override the file.
func (a *App) loadConfig() error {
	dir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(dir, a.dataDir); err != nil {
		return err
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyBusyTimeout, types.DefaultBusyTimeout)
	v.SetDefault(cfgKeyCacheTTL, time.Duration(0))
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyLogFormat, logging.FormatConsole)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Usagef("read config: %w", err)
		}
	}

	log, err := logging.New(logging.Config{
		Level:  v.GetString(cfgKeyLogLevel),
		Format: v.GetString(cfgKeyLogFormat),
		Output: a.errOut,
	})
	if err != nil {
		return Usagef("logging: %w", err)
	}

	a.cfg = v
	a.log = log
	return nil
}

// catalogConfig builds the catalog configuration from flags and viper.
func (a *App) catalogConfig() (types.Config, error) {
	cfg := types.Config{
		Backend:     a.cfg.GetString(cfgKeyBackend),
		DSN:         a.cfg.GetString(cfgKeyDSN),
		BusyTimeout: a.cfg.GetDuration(cfgKeyBusyTimeout),
		CacheTTL:    a.cfg.GetDuration(cfgKeyCacheTTL),
	}
	if cfg.Backend == types.BackendSQLite {
		dir, err := paths.ResolveDataDir(a.dataDir, a.cfg.GetString(cfgKeyDataDir))
		if err != nil {
			return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, Usagef("config: %w", err)
	}
	return cfg, nil
}

// ensureDefaultConfigFile creates dir and a default config.yaml in it unless
// the file exists. A data directory given on first run is recorded.
func ensureDefaultConfigFile(dir, dataDir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(dir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	body, err := yaml.Marshal(defaultConfigFile(dataDir))
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), body...), 0o644)
}
