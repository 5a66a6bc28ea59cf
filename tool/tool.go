// Package tool exposes the transcription pipeline as an MCP tool.
package tool

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	apperrors "github.com/kbukum/whisper-mcp/errors"
	"github.com/kbukum/whisper-mcp/logger"
	"github.com/kbukum/whisper-mcp/pipeline"
)

// ToolName is the name callers invoke.
const ToolName = "transcribe"

// RequestIDHeader is read when the HTTP layer has not already assigned an id.
const RequestIDHeader = "X-Request-ID"

//go:embed instructions.md
var Instructions string

const toolDescription = `Transcribe audio to text with automatic format conversion and language detection.

Accepts audio in any format supported by ffmpeg. Non-MP3 files are automatically converted to MP3 before transcription. Language is auto-detected and used for optimal transcription accuracy.

Returns transcription in the requested format (text, json, vtt, srt, or tsv).`

// Runner executes one transcription. *pipeline.Driver satisfies it.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) pipeline.Outcome
}

// NewServer creates an MCP server advertising the transcribe tool.
func NewServer(name, version string, runner Runner) *server.MCPServer {
	s := server.NewMCPServer(name, version,
		server.WithInstructions(Instructions),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTool(TranscribeTool(), TranscribeHandler(runner))
	return s
}

// TranscribeTool describes the tool's input schema.
func TranscribeTool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription(toolDescription),
		mcp.WithString("audio_base64",
			mcp.Description("Base64-encoded audio data. Provide either this, audio_url, or audio_path."),
		),
		mcp.WithString("audio_url",
			mcp.Description("URL to fetch audio from. Provide either this, audio_base64, or audio_path."),
		),
		mcp.WithString("audio_path",
			mcp.Description("Local file path to read audio from. Provide either this, audio_base64, or audio_url."),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format: 'text' (default), 'json', 'vtt', 'srt', or 'tsv'."),
			mcp.DefaultString("text"),
		),
		mcp.WithString("filename",
			mcp.Description("Original filename with extension, helps with format detection."),
		),
	)
}

// TranscribeHandler runs the pipeline and returns the outcome as a JSON
// text result. Pipeline failures are outcomes, not tool errors.
func TranscribeHandler(runner Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var outcome pipeline.Outcome
		if preq, err := requestFromArgs(req.GetArguments()); err != nil {
			outcome = pipeline.Failure(err)
		} else {
			outcome = runner.Run(ctx, preq)
		}

		body, err := json.Marshal(outcome)
		if err != nil {
			return nil, fmt.Errorf("encode outcome: %w", err)
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

// NewHTTPHandler serves s over the streamable HTTP transport.
func NewHTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithHTTPContextFunc(requestContext),
	)
}

// requestContext carries the caller's request id into tool handlers.
func requestContext(ctx context.Context, r *http.Request) context.Context {
	if logger.RequestIDFromContext(ctx) != "" {
		return ctx
	}
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return logger.ContextWithRequestID(ctx, id)
	}
	return ctx
}

// requestFromArgs maps tool arguments onto a pipeline request. Absent and
// null arguments are empty; any other non-string value is INVALID_INPUT.
func requestFromArgs(args map[string]any) (pipeline.Request, *apperrors.AppError) {
	var (
		req pipeline.Request
		err *apperrors.AppError
	)
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"audio_base64", &req.AudioBase64},
		{"audio_url", &req.AudioURL},
		{"audio_path", &req.AudioPath},
		{"output_format", &req.OutputFormat},
		{"filename", &req.Filename},
	} {
		if *f.dst, err = stringArg(args, f.key); err != nil {
			return pipeline.Request{}, err
		}
	}
	return req, nil
}

// stringArg reads an optional string argument.
func stringArg(args map[string]any, key string) (string, *apperrors.AppError) {
	switch v := args[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", apperrors.InvalidInput(fmt.Sprintf("Invalid %s: expected a string, got %T", key, v))
	}
}
