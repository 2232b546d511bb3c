package config

// Default values for configuration fields.
const (
	DefaultBranch = "main"

	DefaultExportDir    = "export"
	DefaultManifestName = "manifest.json"
	DefaultMetaName     = ".commit-meta.json"
	DefaultIndexWidth   = 4

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// ApplyDefaults fills in default values for any unset configuration
// fields. It modifies the configuration in place.
func ApplyDefaults(cfg *Config) {
	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
	}

	if cfg.Export.Dir == "" {
		cfg.Export.Dir = DefaultExportDir
	}
	if cfg.Export.ManifestName == "" {
		cfg.Export.ManifestName = DefaultManifestName
	}
	if cfg.Export.MetaName == "" {
		cfg.Export.MetaName = DefaultMetaName
	}
	if cfg.Export.IndexWidth == 0 {
		cfg.Export.IndexWidth = DefaultIndexWidth
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

// NewDefault returns a configuration populated entirely from defaults.
func NewDefault() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
