package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/kakapo/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("KAKAPO_HOME", home)
	return home
}

func TestLoadFromBytes(t *testing.T) {
	t.Setenv("KAKAPO_TEST_BUCKET", "sounds-bucket")

	cfg, err := LoadFromBytes([]byte(`
version: "1"
catalog:
  url: https://example.com/api/kakapo
  timeout: 3s
  exclude: ["whitenoise"]
storage:
  driver: s3
  s3:
    bucket: ${KAKAPO_TEST_BUCKET}
    region: ${KAKAPO_TEST_REGION:-eu-west-1}
logging:
  level: debug
  report_caller: true
`))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/api/kakapo", cfg.Catalog.URL)
	assert.Equal(t, 3*time.Second, cfg.Catalog.TimeoutDuration())
	assert.Equal(t, []string{"whitenoise"}, cfg.Catalog.Exclude)
	assert.Equal(t, DriverS3, cfg.Storage.Driver)
	assert.Equal(t, "sounds-bucket", cfg.Storage.S3.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Storage.S3.Region)
	assert.Equal(t, 100, cfg.Server.DebounceMs)

	type loggingConfig struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}
	var logCfg loggingConfig
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)

	var missing loggingConfig
	require.NoError(t, cfg.UnmarshalExtension("nope", &missing))
	assert.Empty(t, missing.Level)
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`version: "1"`))
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalogURL, cfg.Catalog.URL)
	assert.Equal(t, 10*time.Second, cfg.Catalog.TimeoutDuration())
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code errors.ErrorCode
	}{
		{"unknown driver", "storage:\n  driver: floppy\n", errors.ErrCodeConfigValidation},
		{"bad timeout", "catalog:\n  timeout: soon\n", errors.ErrCodeConfigInvalid},
		{"postgres without dsn", "storage:\n  driver: postgres\n", errors.ErrCodeConfigInvalid},
		{"s3 without bucket", "storage:\n  driver: s3\n", errors.ErrCodeConfigInvalid},
		{"malformed yaml", "catalog: [", errors.ErrCodeConfigInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kakapo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
version = "1"

[catalog]
url = "file:///srv/sounds.json"
exclude = ["fan"]

[storage]
driver = "sqlite"
path = "/tmp/kakapo.db"

[logging]
level = "warn"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file:///srv/sounds.json", cfg.Catalog.URL)
	assert.Equal(t, []string{"fan"}, cfg.Catalog.Exclude)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/kakapo.db", cfg.Storage.Path)

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "warn", logCfg.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "kakapo.yml"))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestLoadFromMergesGlobalAndProject(t *testing.T) {
	home := isolateHome(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "config", "kakapo.yml"), []byte(`
catalog:
  url: https://global.example.com/sounds
  timeout: 20s
storage:
  driver: sqlite
  path: /global/kakapo.db
logging:
  level: info
`), 0o644))

	project := t.TempDir()
	nested := filepath.Join(project, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "kakapo.yml"), []byte(`
catalog:
  url: https://project.example.com/sounds
storage:
  driver: memory
logging:
  level: debug
`), 0o644))

	cfg, err := LoadFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, "https://project.example.com/sounds", cfg.Catalog.URL)
	assert.Equal(t, "20s", cfg.Catalog.Timeout)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Empty(t, cfg.Storage.Path, "switching driver drops the old path")

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
}

func TestLoadFromWithoutAnyConfig(t *testing.T) {
	isolateHome(t)
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalogURL, cfg.Catalog.URL)
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	props, ok := doc["properties"].(map[string]interface{})
	require.True(t, ok, "schema should expose top-level properties")
	for _, key := range []string{"version", "catalog", "storage", "server"} {
		assert.Contains(t, props, key)
	}
}
