package server

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/whisper-mcp/auth/authctx"
	"github.com/kbukum/whisper-mcp/errors"
	"github.com/kbukum/whisper-mcp/logger"
	"github.com/kbukum/whisper-mcp/pipeline"
	"github.com/kbukum/whisper-mcp/validation"
)

// transcribeBody is the REST twin of the MCP tool arguments. Source arity
// and output_format are left to the pipeline so both surfaces answer them
// with the same outcome.
type transcribeBody struct {
	AudioBase64  string `json:"audio_base64"`
	AudioURL     string `json:"audio_url" validate:"omitempty,http_url"`
	AudioPath    string `json:"audio_path" validate:"max=4096"`
	OutputFormat string `json:"output_format" validate:"max=16"`
	Filename     string `json:"filename" validate:"max=255"`
}

// TranscribeHandler serves POST /v1/transcribe. Every pipeline outcome,
// success or failure, is a 200 whose keys carry the result; only bodies
// that cannot be decoded or fail validation are 4xx.
func TranscribeHandler(runner Runner, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body transcribeBody
		if err := c.ShouldBindJSON(&body); err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body: " + err.Error()})
			return
		}
		if err := validation.Validate(body); err != nil {
			msg := err.Error()
			if appErr, ok := errors.AsAppError(err); ok {
				msg = appErr.Message
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		ctx := c.Request.Context()
		outcome := runner.Run(ctx, pipeline.Request{
			AudioBase64:  body.AudioBase64,
			AudioURL:     body.AudioURL,
			AudioPath:    body.AudioPath,
			OutputFormat: body.OutputFormat,
			Filename:     body.Filename,
		})
		if outcome.Failed() {
			log.WithContext(ctx).Debug("REST transcription returned an error outcome", logger.Fields(
				"subject", authctx.Subject(ctx),
				logger.FieldError, outcome.ErrorMessage(),
			))
		}
		c.JSON(http.StatusOK, outcome)
	}
}
