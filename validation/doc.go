// Package validation validates configuration structs with
// go-playground/validator tags.
//
// Field names in errors use the mapstructure tag, so messages point at the
// key a user wrote in the config file:
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
//	}
//	err := validation.Validate(cfg) // "base_url: must be a valid URL"
package validation
