package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/kbukum/whisper-mcp/version"
)

// commandContext loads the configuration once for whichever subcommand runs.
type commandContext struct {
	configFlag *string
	envFlag    *string

	configOnce sync.Once
	config     *Config
	configErr  error
}

func newCommandContext(configFlag, envFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, envFlag: envFlag}
}

func (c *commandContext) ensureConfig() (*Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = loadConfig(strings.TrimSpace(*c.configFlag), strings.TrimSpace(*c.envFlag))
	})
	return c.config, c.configErr
}

func newRootCommand() *cobra.Command {
	var configFlag, envFlag string
	ctx := newCommandContext(&configFlag, &envFlag)

	serve := newServeCommand(ctx)
	rootCmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Speech-to-text transcription exposed as an MCP tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serve.RunE,
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&envFlag, "env-file", "", "Environment file path")

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(newTranscribeCommand(ctx))
	rootCmd.AddCommand(newTokenCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), serviceName, version.Full())
			return err
		},
	}
}
