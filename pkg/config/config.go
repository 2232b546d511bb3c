package config

// Config is the root configuration for git-rewrite.
type Config struct {
	// Branch is the branch extracted from the source repository and
	// recreated in the rebuilt one.
	Branch string `yaml:"branch"`

	// Export configures the extraction output layout.
	Export ExportConfig `yaml:"export"`

	// Replay configures replay behavior.
	Replay ReplayConfig `yaml:"replay"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig configures the extraction output layout.
type ExportConfig struct {
	// Dir is the directory the extraction run writes into, relative to
	// the working directory.
	Dir string `yaml:"dir"`

	// ManifestName is the manifest filename inside Dir.
	ManifestName string `yaml:"manifest_name"`

	// MetaName is the reserved per-snapshot metadata filename. Files
	// with this base name are never treated as tracked content.
	MetaName string `yaml:"meta_name"`

	// IndexWidth is the zero-padded width of the snapshot directory
	// index prefix (e.g. 4 yields 0001_<sha>).
	IndexWidth int `yaml:"index_width"`
}

// ReplayConfig configures replay behavior.
type ReplayConfig struct {
	// AllowDanglingParents restores the legacy behavior of silently
	// dropping parents that cannot be resolved through the remap table.
	// When false (the default), an unresolvable parent aborts the run.
	AllowDanglingParents bool `yaml:"allow_dangling_parents"`
}

// LoggingConfig configures structured log output.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, or error.
	Level string `yaml:"level"`

	// Format is the output format: json or text.
	Format string `yaml:"format"`
}
