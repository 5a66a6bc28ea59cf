package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/whisper-mcp/auth"
	"github.com/kbukum/whisper-mcp/bootstrap"
	"github.com/kbukum/whisper-mcp/component"
	"github.com/kbukum/whisper-mcp/logger"
	"github.com/kbukum/whisper-mcp/observability"
	"github.com/kbukum/whisper-mcp/server"
	"github.com/kbukum/whisper-mcp/tool"
	"github.com/kbukum/whisper-mcp/transcode"
	"github.com/kbukum/whisper-mcp/transcription/whisper"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the transcribe tool over MCP streamable HTTP and REST",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

// shutdownMargin gives the collaborators and telemetry time to stop after
// the HTTP server has drained.
const shutdownMargin = 5 * time.Second

func runServe(ctx context.Context, cfg *Config) error {
	app, err := newServeApp(cfg)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

// newServeApp builds the long-running service: telemetry, collaborators and
// the HTTP server, stopped in reverse order.
func newServeApp(cfg *Config, opts ...bootstrap.Option) (*bootstrap.App[*Config], error) {
	cfg.ApplyDefaults()
	opts = append([]bootstrap.Option{
		bootstrap.WithGracefulTimeout(cfg.Server.ShutdownTimeout + shutdownMargin),
	}, opts...)

	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	srv, deps, err := buildServer(app)
	if err != nil {
		return nil, err
	}

	for _, c := range []component.Component{
		observability.NewTelemetry(cfg.Name, cfg.Version, cfg.Environment, cfg.Tracing, cfg.Metrics),
		deps,
		server.NewComponent(srv),
	} {
		if err := app.RegisterComponent(c); err != nil {
			return nil, err
		}
	}

	app.OnReady(func(context.Context) error {
		app.Logger.Info("Accepting MCP and REST requests", logger.Fields(
			"mcp_endpoint", "http://"+srv.Addr()+"/mcp",
			"auth", cfg.Server.Auth.Enabled(),
		))
		return nil
	})
	return app, nil
}

// buildServer wires the pipeline, the MCP tool and the HTTP routes for app.
func buildServer(app *bootstrap.App[*Config]) (*server.Server, *collaborators, error) {
	cfg := app.Cfg

	deps, err := newCollaborators(cfg, app.Logger)
	if err != nil {
		return nil, nil, err
	}
	validator, err := auth.NewValidator(cfg.Server.Auth)
	if err != nil {
		return nil, nil, err
	}

	srv := server.New(cfg.Server, app.Logger)
	srv.Mount(server.Routes{
		ServiceName: cfg.Name,
		Runner:      deps.driver,
		MCP:         tool.NewHTTPHandler(tool.NewServer(cfg.Name, cfg.Version, deps.driver)),
		Validator:   validator,
		Health:      deps.Check,
		Readiness:   app.Components.HealthAll,
		Capacity:    deps.Capacity,
	})
	srv.ApplyMiddleware()

	for _, r := range srv.GinEngine().Routes() {
		app.Summary.TrackRoute(r.Method, r.Path)
	}
	app.Summary.TrackClient(whisper.ProviderName, cfg.Whisper.ASRURL, "http")
	app.Summary.TrackClient(deps.ffmpeg.Name(), cfg.FFmpeg.Target(), transcoderKind(cfg.FFmpeg.Mode))

	return srv, deps, nil
}

func transcoderKind(mode string) string {
	if mode == transcode.ModeLocal {
		return "exec"
	}
	return "http"
}
