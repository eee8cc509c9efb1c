package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/paths"
	"github.com/grovetools/kakapo/util/pathutil"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames lists the project config file names in lookup order.
var configNames = []string{
	"kakapo.yml",
	"kakapo.yaml",
	"kakapo.toml",
	".kakapo.yml",
	".kakapo.yaml",
}

// Load reads and parses a single kakapo configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	if isTOML(path) {
		return LoadFromTOML(data)
	}
	return LoadFromBytes(data)
}

// LoadDefault loads configuration starting from the current directory.
// A missing project config is not an error: defaults are returned.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// LoadFrom loads configuration with hierarchical merging starting from the given directory
func LoadFrom(startDir string) (*Config, error) {
	return LoadFromWithLogger(startDir, logrus.New())
}

// LoadFromWithLogger loads configuration with hierarchical merging:
// 1. Global config ($XDG_CONFIG_HOME/kakapo/kakapo.yml) - base layer
// 2. Project config (kakapo.yml or kakapo.toml, searched upward) - overrides global
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	final := &Config{}

	globalPath := paths.GlobalConfigPath()
	if globalPath != "" {
		if _, err := os.Stat(globalPath); err == nil {
			logger.WithField("path", globalPath).Debug("Loading global configuration")
			global, err := parseFile(globalPath)
			if err != nil {
				logger.WithError(err).Warn("Failed to parse global configuration, continuing without it")
			} else {
				final = global
			}
		}
	}

	projectPath, err := FindConfigFile(startDir)
	if err == nil && !samePath(projectPath, globalPath) {
		logger.WithField("path", projectPath).Debug("Loading project configuration")
		project, err := parseFile(projectPath)
		if err != nil {
			return nil, err
		}
		final = mergeConfigs(final, project)
	}

	return finalize(final)
}

// LoadFromBytes parses YAML configuration data
func LoadFromBytes(data []byte) (*Config, error) {
	cfg, err := decodeYAML(data)
	if err != nil {
		return nil, err
	}
	return finalize(cfg)
}

// LoadFromTOML parses TOML configuration data
func LoadFromTOML(data []byte) (*Config, error) {
	cfg, err := decodeTOML(data)
	if err != nil {
		return nil, err
	}
	return finalize(cfg)
}

// FindConfigFile searches for a kakapo configuration file from startDir up to
// the filesystem root.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

func parseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}
	var cfg *Config
	if isTOML(path) {
		cfg, err = decodeTOML(data)
	} else {
		cfg, err = decodeYAML(data)
	}
	if err != nil {
		if kerr, ok := err.(*errors.KakapoError); ok {
			return nil, kerr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

func decodeYAML(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}
	return &cfg, nil
}

// decodeTOML goes through a generic map and back through YAML so the yaml
// tags (including the inline extensions map) stay the single source of truth.
func decodeTOML(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var raw map[string]interface{}
	if err := toml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
	}
	bridged, err := yaml.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to convert TOML configuration")
	}
	var cfg Config
	if err := yaml.Unmarshal(bridged, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to convert TOML configuration")
	}
	return &cfg, nil
}

func finalize(cfg *Config) (*Config, error) {
	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "schema validation failed")
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "semantic validation failed")
	}
	return cfg, nil
}

func samePath(a, b string) bool {
	if b == "" {
		return false
	}
	same, err := pathutil.ComparePaths(a, b)
	return err == nil && same
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
