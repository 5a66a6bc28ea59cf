// Package config loads service configuration from a YAML file, an optional
// .env file, and the process environment.
//
// Files are searched in the conventional locations (./cmd/<service>/config.yml,
// ./config.yml, .env) unless explicit paths are given. Every environment
// variable is bound to each of its nested key variants, so WHISPER_ASR_URL
// fills whisper.asr_url and MCP_PORT fills mcp.port without explicit binding.
//
//	var cfg AppConfig
//	if err := config.LoadConfig("whisper-mcp", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
