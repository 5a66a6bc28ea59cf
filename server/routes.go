package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/whisper-mcp/auth"
	"github.com/kbukum/whisper-mcp/logger"
	"github.com/kbukum/whisper-mcp/pipeline"
	"github.com/kbukum/whisper-mcp/server/endpoint"
	"github.com/kbukum/whisper-mcp/server/middleware"
)

// Paths served by Mount.
const (
	PathMCP        = "/mcp"
	PathTranscribe = "/v1/transcribe"
	PathHealth     = "/health"
	PathReady      = "/ready"
	PathInfo       = "/info"
)

// Runner executes one transcription. *pipeline.Driver satisfies it.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) pipeline.Outcome
}

// Routes is everything Mount wires onto the server.
type Routes struct {
	ServiceName string
	Runner      Runner
	// MCP is the streamable MCP transport, mounted on /mcp.
	MCP http.Handler
	// Validator guards /mcp and /v1; nil leaves them open.
	Validator auth.TokenValidator
	// Health backs /health, Readiness and Capacity back /ready.
	Health    endpoint.HealthChecker
	Readiness endpoint.HealthChecker
	Capacity  endpoint.Capacity
}

// Mount registers the probes and the guarded work routes.
func (s *Server) Mount(r Routes) {
	s.engine.GET(PathHealth, endpoint.Health(r.ServiceName, r.Health))
	s.engine.GET(PathReady, endpoint.Readiness(r.ServiceName, r.Readiness, r.Capacity))
	s.engine.GET(PathInfo, endpoint.Info(r.ServiceName))

	guarded := s.engine.Group("/")
	if r.Validator != nil {
		guarded.Use(middleware.GinWrap(middleware.Auth(r.Validator)))
	}
	guarded.Use(middleware.GinWrap(middleware.RateLimit(s.config.RateLimit)))

	if r.MCP != nil {
		mcp := gin.WrapH(r.MCP)
		guarded.GET(PathMCP, mcp)
		guarded.POST(PathMCP, mcp)
		guarded.DELETE(PathMCP, mcp)
	}
	if r.Runner != nil {
		guarded.POST(PathTranscribe, TranscribeHandler(r.Runner, s.log))
	}

	s.log.Info("Routes mounted", logger.Fields(
		"auth", r.Validator != nil,
		"rate_limit_per_minute", s.config.RateLimit.RequestsPerMinute,
	))
}
