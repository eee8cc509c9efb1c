package config

// mergeConfigs merges override configuration into base. Scalar fields in
// override win when set; exclude lists are replaced, not appended.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	// Catalog
	if override.Catalog.URL != "" {
		result.Catalog.URL = override.Catalog.URL
	}
	if override.Catalog.Timeout != "" {
		result.Catalog.Timeout = override.Catalog.Timeout
	}
	if len(override.Catalog.Exclude) > 0 {
		result.Catalog.Exclude = append([]string(nil), override.Catalog.Exclude...)
	}

	// Storage: a new driver resets the backend-specific settings
	if override.Storage.Driver != "" && override.Storage.Driver != result.Storage.Driver {
		result.Storage = StorageConfig{Driver: override.Storage.Driver}
	}
	if override.Storage.Path != "" {
		result.Storage.Path = override.Storage.Path
	}
	if override.Storage.DSN != "" {
		result.Storage.DSN = override.Storage.DSN
	}
	mergeS3(&result.Storage.S3, override.Storage.S3)

	// Server
	if override.Server.Socket != "" {
		result.Server.Socket = override.Server.Socket
	}
	if override.Server.Listen != "" {
		result.Server.Listen = override.Server.Listen
	}
	if override.Server.DebounceMs != 0 {
		result.Server.DebounceMs = override.Server.DebounceMs
	}

	// Extensions merge per top-level key
	if len(base.Extensions) > 0 || len(override.Extensions) > 0 {
		result.Extensions = make(map[string]interface{}, len(base.Extensions)+len(override.Extensions))
		for k, v := range base.Extensions {
			result.Extensions[k] = v
		}
		for k, v := range override.Extensions {
			result.Extensions[k] = v
		}
	}

	return &result
}

func mergeS3(dst *S3Config, src S3Config) {
	if src.Bucket != "" {
		dst.Bucket = src.Bucket
	}
	if src.Region != "" {
		dst.Region = src.Region
	}
	if src.Endpoint != "" {
		dst.Endpoint = src.Endpoint
	}
	if src.Prefix != "" {
		dst.Prefix = src.Prefix
	}
	if src.PathStyle {
		dst.PathStyle = true
	}
	if src.AccessKeyID != "" {
		dst.AccessKeyID = src.AccessKeyID
	}
	if src.SecretAccessKey != "" {
		dst.SecretAccessKey = src.SecretAccessKey
	}
}
