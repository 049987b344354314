// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// `Load` calls `validateStruct` right after the env overlay is unmarshalled,
// so envgen never runs with an empty input path or an unknown log level.

package config

import "github.com/go-playground/validator/v10"

var v = validator.New()

// validateStruct returns the first validation error, or nil on success.
func validateStruct(o *Options) error {
	return v.Struct(o)
}
