package bootstrap

import (
	"github.com/kbukum/whisper-mcp/config"
)

// Config is the constraint on application configuration types. Structs
// embedding config.ServiceConfig get GetServiceConfig by promotion and
// override ApplyDefaults and Validate for their own sections.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
