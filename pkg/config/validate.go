package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "export.dir").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is
// valid. All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	add := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	if cfg.Branch == "" {
		add("branch", "cannot be empty")
	}

	if cfg.Export.Dir == "" {
		add("export.dir", "cannot be empty")
	}
	if cfg.Export.ManifestName == "" {
		add("export.manifest_name", "cannot be empty")
	}
	if cfg.Export.MetaName == "" {
		add("export.meta_name", "cannot be empty")
	} else if strings.ContainsAny(cfg.Export.MetaName, "/\\") {
		add("export.meta_name", "must be a bare filename, not a path")
	}
	if cfg.Export.IndexWidth < 1 || cfg.Export.IndexWidth > 10 {
		add("export.index_width", fmt.Sprintf("must be between 1 and 10, got %d", cfg.Export.IndexWidth))
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level", fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		add("logging.format", fmt.Sprintf("must be json or text; got %q", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
