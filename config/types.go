package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Storage driver names understood by pkg/storage.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// DefaultCatalogURL is the public kakapo sound catalog.
const DefaultCatalogURL = "https://kakapo.co/api/sounds"

// Config is the root of kakapo.yml / kakapo.toml.
type Config struct {
	Version string        `yaml:"version" json:"version" jsonschema:"description=Configuration version (e.g. '1')"`
	Catalog CatalogConfig `yaml:"catalog,omitempty" json:"catalog,omitempty" jsonschema:"description=Where the sound catalog is fetched from"`
	Storage StorageConfig `yaml:"storage,omitempty" json:"storage,omitempty" jsonschema:"description=Where the sound collection is cached"`
	Server  ServerConfig  `yaml:"server,omitempty" json:"server,omitempty" jsonschema:"description=Daemon settings"`

	// Extensions captures any other top-level section (e.g. logging) so
	// packages can decode their own configuration with UnmarshalExtension.
	Extensions map[string]interface{} `yaml:",inline" json:"-"`
}

// CatalogConfig configures the remote sound catalog.
type CatalogConfig struct {
	URL     string   `yaml:"url,omitempty" json:"url,omitempty" jsonschema:"description=HTTP(S) URL or local file with the sound catalog"`
	Timeout string   `yaml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"description=Request timeout as a Go duration (e.g. 10s)"`
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty" jsonschema:"description=Glob patterns of sound ids to skip"`
}

// TimeoutDuration parses Timeout, returning 0 when unset or invalid.
func (c CatalogConfig) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Driver string   `yaml:"driver,omitempty" json:"driver,omitempty" jsonschema:"enum=memory,enum=file,enum=sqlite,enum=postgres,enum=s3,description=Storage backend"`
	Path   string   `yaml:"path,omitempty" json:"path,omitempty" jsonschema:"description=File or database path for the file and sqlite drivers"`
	DSN    string   `yaml:"dsn,omitempty" json:"dsn,omitempty" jsonschema:"description=Connection string for the postgres driver"`
	S3     S3Config `yaml:"s3,omitempty" json:"s3,omitempty" jsonschema:"description=Settings for the s3 driver"`
}

// S3Config configures the S3 storage backend.
type S3Config struct {
	Bucket          string `yaml:"bucket,omitempty" json:"bucket,omitempty"`
	Region          string `yaml:"region,omitempty" json:"region,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty" json:"endpoint,omitempty" jsonschema:"description=Custom endpoint such as a MinIO server"`
	Prefix          string `yaml:"prefix,omitempty" json:"prefix,omitempty" jsonschema:"description=Object key prefix"`
	PathStyle       bool   `yaml:"path_style,omitempty" json:"path_style,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty" json:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" json:"secret_access_key,omitempty"`
}

// ServerConfig configures the kakapo daemon.
type ServerConfig struct {
	Socket     string `yaml:"socket,omitempty" json:"socket,omitempty" jsonschema:"description=Unix socket path of the daemon"`
	Listen     string `yaml:"listen,omitempty" json:"listen,omitempty" jsonschema:"description=Optional TCP address to also serve the API on"`
	DebounceMs int    `yaml:"debounce_ms,omitempty" json:"debounce_ms,omitempty" jsonschema:"minimum=0,description=Config watcher debounce in milliseconds"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Catalog.URL == "" {
		c.Catalog.URL = DefaultCatalogURL
	}
	if c.Catalog.Timeout == "" {
		c.Catalog.Timeout = "10s"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	if c.Server.DebounceMs == 0 {
		c.Server.DebounceMs = 100
	}
}

// Validate checks semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	if c.Catalog.Timeout != "" {
		if _, err := time.ParseDuration(c.Catalog.Timeout); err != nil {
			return fmt.Errorf("catalog.timeout: %w", err)
		}
	}
	switch c.Storage.Driver {
	case "", DriverMemory, DriverFile, DriverSQLite:
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	case DriverS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}
	return nil
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded kakapo.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// A missing section leaves target zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
