// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8081".
	Addr string `koanf:"addr"`

	// ShardCount configures the number of score shards in the store.
	ShardCount int `koanf:"shard_count"`

	// MaxImportRows caps the number of data rows in one roster import.
	MaxImportRows int `koanf:"max_import_rows"`
}

// New returns a Config holding the defaults every deployment starts from.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":8081",
		ShardCount:    16,
		MaxImportRows: 5000,
	}
}
