// Package config loads the migration settings from the application's YAML
// config file, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalid is returned when a loaded config is missing a required value.
var ErrInvalid = errors.New("invalid config")

// DbCfg mirrors the "db" section of the application config.
type DbCfg struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Db       string `mapstructure:"db"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	MaxConns int32  `mapstructure:"maxConns"`
}

// ScyllaCfg mirrors the "scylla" section of the application config.
type ScyllaCfg struct {
	Nodes              []string `mapstructure:"nodes"`
	Keyspace           string   `mapstructure:"keyspace"`
	LocalDataCentre    string   `mapstructure:"localDataCentre"`
	SparseTimelineDays int      `mapstructure:"sparseTimelineDays"`
}

// MigrationCfg holds the knobs of the copy phase itself.
type MigrationCfg struct {
	// Workers bounds the units of work in flight per stream.
	Workers int `mapstructure:"workers"`
	// WriteConcurrency bounds destination writes across all streams,
	// timeline fan-out included.
	WriteConcurrency int64 `mapstructure:"writeConcurrency"`
	// PageSize is the keyset page used when scanning the source tables.
	PageSize                int    `mapstructure:"pageSize"`
	ProgressIntervalSeconds int    `mapstructure:"progressIntervalSeconds"`
	MetricsAddr             string `mapstructure:"metricsAddr"`
	Cleanup                 bool   `mapstructure:"cleanup"`
}

// LogCfg selects the zap preset.
type LogCfg struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

type Config struct {
	Db        DbCfg        `mapstructure:"db"`
	Scylla    ScyllaCfg    `mapstructure:"scylla"`
	Migration MigrationCfg `mapstructure:"migration"`
	Log       LogCfg       `mapstructure:"log"`
	// Derived
	ProgressInterval time.Duration
}

// Load reads path (if not empty), overlays MIGRATE_* environment variables and
// any flags registered in fs, applies defaults, and validates the result.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("MIGRATE")
	// allow nested override: MIGRATE_DB_HOST, MIGRATE_SCYLLA_KEYSPACE etc.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ProgressInterval = time.Duration(cfg.Migration.ProgressIntervalSeconds) * time.Second
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.db", "")
	v.SetDefault("db.user", "")
	v.SetDefault("db.pass", "")
	v.SetDefault("db.maxConns", 32)
	v.SetDefault("scylla.nodes", []string{})
	v.SetDefault("scylla.keyspace", "")
	v.SetDefault("scylla.localDataCentre", "")
	v.SetDefault("scylla.sparseTimelineDays", 14)
	v.SetDefault("migration.workers", 64)
	v.SetDefault("migration.writeConcurrency", 128)
	v.SetDefault("migration.pageSize", 1000)
	v.SetDefault("migration.progressIntervalSeconds", 5)
	v.SetDefault("log.level", "info")
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"workers":           "migration.workers",
	"write-concurrency": "migration.writeConcurrency",
	"page-size":         "migration.pageSize",
	"metrics-addr":      "migration.metricsAddr",
	"cleanup":           "migration.cleanup",
	"dev":               "log.development",
	"log-level":         "log.level",
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate reports the first missing or out-of-range setting shared by every
// tool. Tools that read Postgres also call ValidateSource.
func (c *Config) Validate() error {
	switch {
	case len(c.Scylla.Nodes) == 0:
		return fmt.Errorf("%w: scylla.nodes is required", ErrInvalid)
	case c.Scylla.Keyspace == "":
		return fmt.Errorf("%w: scylla.keyspace is required", ErrInvalid)
	case c.Migration.Workers <= 0:
		return fmt.Errorf("%w: migration.workers must be positive", ErrInvalid)
	case c.Migration.WriteConcurrency <= 0:
		return fmt.Errorf("%w: migration.writeConcurrency must be positive", ErrInvalid)
	case c.Migration.PageSize <= 0:
		return fmt.Errorf("%w: migration.pageSize must be positive", ErrInvalid)
	}
	return nil
}

// ValidateSource checks the "db" section.
func (c *Config) ValidateSource() error {
	switch {
	case c.Db.Db == "":
		return fmt.Errorf("%w: db.db is required", ErrInvalid)
	case c.Db.User == "":
		return fmt.Errorf("%w: db.user is required", ErrInvalid)
	}
	return nil
}
