package main

import (
	"fmt"

	"github.com/kbukum/whisper-mcp/audio"
	"github.com/kbukum/whisper-mcp/config"
	"github.com/kbukum/whisper-mcp/observability"
	"github.com/kbukum/whisper-mcp/pipeline"
	"github.com/kbukum/whisper-mcp/server"
	"github.com/kbukum/whisper-mcp/transcode"
	"github.com/kbukum/whisper-mcp/transcription/whisper"
	"github.com/kbukum/whisper-mcp/version"
)

const (
	serviceName = "whisper-mcp"

	defaultMCPHost = "0.0.0.0"
	defaultMCPPort = 3020
)

// MCPConfig is the listener address, named after the tool surface it serves.
type MCPConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// Config is the full service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Whisper  whisper.Config              `yaml:"whisper" mapstructure:"whisper"`
	FFmpeg   transcode.Config            `yaml:"ffmpeg" mapstructure:"ffmpeg"`
	Fetch    audio.FetchConfig           `yaml:"fetch" mapstructure:"fetch"`
	MCP      MCPConfig                   `yaml:"mcp" mapstructure:"mcp"`
	Server   server.Config               `yaml:"server" mapstructure:"server"`
	Pipeline pipeline.Config             `yaml:"pipeline" mapstructure:"pipeline"`
	Tracing  observability.TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics  observability.MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// ApplyDefaults fills every section and copies the listen address into
// the server section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Version
	}
	c.ServiceConfig.ApplyDefaults()

	c.Whisper.ApplyDefaults()
	c.FFmpeg.ApplyDefaults()
	c.Fetch.ApplyDefaults()
	if c.MCP.Host == "" {
		c.MCP.Host = defaultMCPHost
	}
	if c.MCP.Port == 0 {
		c.MCP.Port = defaultMCPPort
	}
	c.Server.Host = c.MCP.Host
	c.Server.Port = c.MCP.Port
	c.Server.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Tracing.ApplyDefaults()
	c.Metrics.ApplyDefaults()
}

// Validate checks every section and returns the first failure.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	for _, validate := range []func() error{
		c.Whisper.Validate,
		c.FFmpeg.Validate,
		c.Fetch.Validate,
		c.Server.Validate,
		c.Pipeline.Validate,
		c.Tracing.Validate,
		c.Metrics.Validate,
	} {
		if err := validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// loadConfig reads config.yml, .env and the environment, then applies
// defaults. Validation is left to bootstrap.NewApp.
func loadConfig(configFile, envFile string) (*Config, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
