package bootstrap

import (
	"github.com/kbukum/reqkit/config"
)

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig satisfies it through promoted methods, as
// long as it also defines ApplyDefaults and Validate for its own sections.
//
//	type CLIConfig struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    HTTP httpclient.Config `mapstructure:"http"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
