package config

import "fmt"

// Error reports a configuration that could not be loaded or is invalid.
type Error struct {
	// Path is the config file involved, empty for defaults and environment.
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
