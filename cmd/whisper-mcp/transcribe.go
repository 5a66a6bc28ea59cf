package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/whisper-mcp/bootstrap"
	"github.com/kbukum/whisper-mcp/component"
	"github.com/kbukum/whisper-mcp/observability"
	"github.com/kbukum/whisper-mcp/pipeline"
)

// errOutcomeFailed makes the process exit non-zero after an error outcome
// has already been printed.
var errOutcomeFailed = errors.New("transcription returned an error outcome")

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var req pipeline.Request
	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe one audio source and print the outcome JSON",
		Example: `  whisper-mcp transcribe --path talk.m4a --format srt
  whisper-mcp transcribe --url https://example.com/episode.mp3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runTranscribe(cmd.Context(), cfg, req, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.AudioPath, "path", "", "Local audio file")
	f.StringVar(&req.AudioURL, "url", "", "Audio URL to download")
	f.StringVar(&req.AudioBase64, "base64", "", "Base64-encoded audio")
	f.StringVarP(&req.OutputFormat, "format", "f", "", "Output format: text, json, vtt, srt or tsv (default text)")
	f.StringVar(&req.Filename, "filename", "", "Filename hint for format detection")
	return cmd
}

// runTranscribe runs one request through the same pipeline the server uses.
// Logs go to stderr so out carries only the outcome.
func runTranscribe(ctx context.Context, cfg *Config, req pipeline.Request, out io.Writer) error {
	cfg.Logging.Output = "stderr"
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	deps, err := newCollaborators(cfg, app.Logger)
	if err != nil {
		return err
	}
	for _, c := range []component.Component{
		observability.NewTelemetry(cfg.Name, cfg.Version, cfg.Environment, cfg.Tracing, cfg.Metrics),
		deps,
	} {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}

	return app.RunTask(ctx, func(ctx context.Context) error {
		outcome := deps.driver.Run(ctx, req)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcome); err != nil {
			return err
		}
		if outcome.Failed() {
			return errOutcomeFailed
		}
		return nil
	})
}
