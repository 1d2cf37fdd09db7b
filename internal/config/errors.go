package config

import "fmt"

// ConfigError reports a configuration file that could not be read, parsed
// or saved. On load the caller always also receives usable defaults.
type ConfigError struct {
	// Path is the configuration file involved
	Path string
	// Op is "load" or "save"
	Op string
	// Underlying error
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
