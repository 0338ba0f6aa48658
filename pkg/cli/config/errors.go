package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound  = goerr.New("configuration file not found")
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrDuplicateID     = goerr.New("duplicate ID")
	ErrMissingName     = goerr.New("name is required")
	ErrInvalidBackend  = goerr.New("invalid repository backend")
	ErrMissingProject  = goerr.New("firestore project ID is required")
	ErrInvalidLogLevel = goerr.New("invalid log level")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	CategoryIDKey = "category_id"
	IndexKey      = "index"
)
