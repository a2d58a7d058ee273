package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
db:
  host: pg.internal
  port: 5433
  db: calckey
  user: calckey
  pass: secret
scylla:
  nodes: [10.0.0.1, 10.0.0.2]
  keyspace: calckey
  localDataCentre: dc1
migration:
  workers: 8
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "default.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample), nil)
	require.NoError(t, err)

	assert.Equal(t, "pg.internal", cfg.Db.Host)
	assert.Equal(t, 5433, cfg.Db.Port)
	assert.Equal(t, "secret", cfg.Db.Pass)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Scylla.Nodes)
	assert.Equal(t, "dc1", cfg.Scylla.LocalDataCentre)
	assert.Equal(t, 8, cfg.Migration.Workers)
	// defaults
	assert.EqualValues(t, 128, cfg.Migration.WriteConcurrency)
	assert.Equal(t, 1000, cfg.Migration.PageSize)
	assert.EqualValues(t, 32, cfg.Db.MaxConns)
	assert.Equal(t, 14, cfg.Scylla.SparseTimelineDays)
	assert.Equal(t, 5*time.Second, cfg.ProgressInterval)
	assert.False(t, cfg.Migration.Cleanup)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MIGRATE_DB_HOST", "from-env")
	t.Setenv("MIGRATE_MIGRATION_PAGESIZE", "250")

	cfg, err := Load(writeConfig(t, sample), nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Db.Host)
	assert.Equal(t, 250, cfg.Migration.PageSize)
}

func TestLoadFlagsOverride(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("workers", 64, "")
	fs.Bool("cleanup", false, "")
	require.NoError(t, fs.Parse([]string{"--workers=3", "--cleanup"}))

	cfg, err := Load(writeConfig(t, sample), fs)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Migration.Workers)
	assert.True(t, cfg.Migration.Cleanup)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Db:        DbCfg{Db: "calckey", User: "calckey"},
			Scylla:    ScyllaCfg{Nodes: []string{"n"}, Keyspace: "k"},
			Migration: MigrationCfg{Workers: 1, WriteConcurrency: 1, PageSize: 1},
		}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"valid", func(*Config) {}, ""},
		// db is checked separately
		{"no db section", func(c *Config) { c.Db = DbCfg{} }, ""},
		{"no nodes", func(c *Config) { c.Scylla.Nodes = nil }, "scylla.nodes"},
		{"no keyspace", func(c *Config) { c.Scylla.Keyspace = "" }, "scylla.keyspace"},
		{"zero workers", func(c *Config) { c.Migration.Workers = 0 }, "migration.workers"},
		{"zero writes", func(c *Config) { c.Migration.WriteConcurrency = 0 }, "migration.writeConcurrency"},
		{"zero page", func(c *Config) { c.Migration.PageSize = 0 }, "migration.pageSize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidateSource(t *testing.T) {
	c := Config{Db: DbCfg{Db: "calckey", User: "calckey"}}
	assert.NoError(t, c.ValidateSource())

	c.Db.User = ""
	err := c.ValidateSource()
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "db.user")

	c.Db.Db = ""
	assert.ErrorContains(t, c.ValidateSource(), "db.db")
}

func TestLoadWithoutDbSection(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
scylla:
  nodes: [10.0.0.1]
  keyspace: calckey
`), nil)
	require.NoError(t, err)
	assert.Equal(t, "calckey", cfg.Scylla.Keyspace)
	assert.ErrorIs(t, cfg.ValidateSource(), ErrInvalid)
}
