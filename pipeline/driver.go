package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kbukum/whisper-mcp/audio"
	apperrors "github.com/kbukum/whisper-mcp/errors"
	"github.com/kbukum/whisper-mcp/logger"
	"github.com/kbukum/whisper-mcp/observability"
	"github.com/kbukum/whisper-mcp/provider"
	"github.com/kbukum/whisper-mcp/resilience"
	"github.com/kbukum/whisper-mcp/transcription"
)

const (
	operationName = "transcribe"

	stageResolve   = "resolve"
	stageTranscode = "transcode"
	stageDetect    = "detect_language"
	stageRecognize = "recognize"
)

// Resolver reads an audio source into an asset.
type Resolver interface {
	Resolve(ctx context.Context, src audio.Source, filename string) (*audio.Asset, error)
}

// Stages are the collaborators a Driver sequences.
type Stages struct {
	Resolver    Resolver
	Transcoder  provider.RequestResponse[*audio.Asset, []byte]
	Detector    transcription.LanguageDetector
	Transcriber transcription.Transcriber
}

func (s Stages) validate() error {
	switch {
	case s.Resolver == nil:
		return errors.New("pipeline: resolver is required")
	case s.Transcoder == nil:
		return errors.New("pipeline: transcoder is required")
	case s.Detector == nil:
		return errors.New("pipeline: language detector is required")
	case s.Transcriber == nil:
		return errors.New("pipeline: transcriber is required")
	}
	return nil
}

type resolveInput struct {
	source   audio.Source
	filename string
}

// Driver runs transcription requests. It is safe for concurrent use.
type Driver struct {
	resolve    provider.RequestResponse[resolveInput, *audio.Asset]
	transcode  provider.RequestResponse[*audio.Asset, []byte]
	detect     provider.RequestResponse[[]byte, string]
	transcribe provider.RequestResponse[transcription.Request, string]

	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	service  string
	log      *logger.Logger
}

// Option customizes a Driver.
type Option func(*Driver)

// WithMetrics records outcome and stage metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// WithServiceName sets the service name reported on spans and metrics.
func WithServiceName(name string) Option {
	return func(d *Driver) { d.service = name }
}

// WithLogger replaces the driver's logger.
func WithLogger(l *logger.Logger) Option {
	return func(d *Driver) { d.log = l }
}

// New builds a Driver over stages.
func New(cfg Config, stages Stages, opts ...Option) (*Driver, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := stages.validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		service: "whisper-mcp",
		log:     logger.WithComponent("pipeline"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.metrics == nil {
		m, err := observability.NewMetrics(observability.Meter(d.service))
		if err != nil {
			return nil, fmt.Errorf("pipeline: metrics: %w", err)
		}
		d.metrics = m
	}

	d.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          operationName,
		MaxConcurrent: cfg.MaxConcurrent,
		MaxWait:       cfg.MaxWait,
		OnReject: func(name string, err error) {
			d.log.Warn("transcription rejected", logger.MergeWithError(logger.Fields(logger.FieldOperation, name), err))
		},
	})

	d.resolve = wrap(d, provider.Func(stageResolve, nil, func(ctx context.Context, in resolveInput) (*audio.Asset, error) {
		return stages.Resolver.Resolve(ctx, in.source, in.filename)
	}))
	d.transcode = wrap(d, provider.Func(stageTranscode, stages.Transcoder, stages.Transcoder.Execute))
	d.detect = wrap(d, provider.Func(stageDetect, stages.Detector, func(ctx context.Context, mp3 []byte) (string, error) {
		code, _ := stages.Detector.DetectLanguage(ctx, mp3)
		return code, nil
	}))
	d.transcribe = wrap(d, provider.Func(stageRecognize, stages.Transcriber, stages.Transcriber.Transcribe))

	return d, nil
}

func wrap[I, O any](d *Driver, stage provider.RequestResponse[I, O]) provider.RequestResponse[I, O] {
	return provider.Chain(
		provider.WithTracing[I, O](operationName),
		provider.WithMetrics[I, O](d.metrics),
		provider.WithLogging[I, O](d.log),
	)(stage)
}

// Run executes one request and always returns a well-formed Outcome.
// Source arity is checked first, then the output format, both before any I/O.
func (d *Driver) Run(ctx context.Context, req Request) Outcome {
	ctx, requestID := ensureRequestID(ctx)
	oc := observability.NewOperationContext(d.service, operationName, requestID, d.metrics)
	ctx, span := oc.StartSpanForOperation(ctx, observability.SpanTranscribe)
	if sc := span.SpanContext(); sc.IsValid() {
		ctx = logger.ContextWithTrace(ctx, sc.TraceID().String(), sc.SpanID().String())
	}
	log := d.log.WithContext(ctx)

	formatLabel := "invalid"
	var out Outcome
	src, err := audio.NewSource(req.AudioBase64, req.AudioURL, req.AudioPath)
	if err == nil {
		var format transcription.OutputFormat
		format, err = transcription.ParseOutputFormat(req.OutputFormat)
		if err == nil {
			formatLabel = format.String()
			out, err = d.admit(ctx, src, req.Filename, format)
		}
	}
	observability.SetSpanAttribute(ctx, observability.AttrOutputFormat, formatLabel)

	if err != nil {
		appErr := toAppError(err)
		out = Failure(appErr)
		observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(appErr.Code))
		oc.EndOperation(ctx, span, "error", appErr)
		d.metrics.RecordOutcome(ctx, formatLabel, string(appErr.Code))
		log.Warn("transcription failed", logger.Fields(
			logger.FieldCode, string(appErr.Code),
			logger.FieldError, appErr.Message,
			logger.FieldDuration, oc.Duration().Milliseconds(),
		))
		return out
	}

	oc.EndOperation(ctx, span, "ok", nil)
	d.metrics.RecordOutcome(ctx, formatLabel, "")
	log.Info("transcription finished", logger.Fields(
		"output_format", formatLabel,
		"language", out.DetectedLanguage,
		logger.FieldDuration, oc.Duration().Milliseconds(),
	))
	return out
}

// admit runs the stages inside the bulkhead. A request that never gets a
// slot fails as ServiceBusy.
func (d *Driver) admit(ctx context.Context, src audio.Source, filename string, format transcription.OutputFormat) (Outcome, error) {
	observability.SetSpanAttribute(ctx, observability.AttrSourceKind, string(src.Kind()))

	admitted := false
	out, err := resilience.ExecuteWithResult(d.bulkhead, ctx, func() (Outcome, error) {
		admitted = true
		return d.execute(ctx, src, filename, format)
	})
	if err != nil && !admitted {
		return Outcome{}, apperrors.ServiceBusy(err)
	}
	return out, err
}

func (d *Driver) execute(ctx context.Context, src audio.Source, filename string, format transcription.OutputFormat) (Outcome, error) {
	log := d.log.WithContext(ctx)

	asset, err := d.resolve.Execute(ctx, resolveInput{source: src, filename: filename})
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return Outcome{}, appErr
		}
		return Outcome{}, apperrors.SourceFailed(apperrors.ErrCodeFetchFailed, err)
	}
	d.metrics.RecordAudioBytes(ctx, string(src.Kind()), asset.Size())
	observability.SetSpanAttribute(ctx, observability.AttrAudioBytes, asset.Size())

	if asset.IsMP3() {
		log.Debug("conversion skipped", logger.Fields(logger.FieldStage, stageTranscode, "signature", audio.MatchSignature(asset.Data)))
	} else {
		mp3, err := d.transcode.Execute(ctx, asset)
		if err != nil {
			return Outcome{}, apperrors.TranscodeFailed(err)
		}
		asset = asset.WithData(mp3)
	}

	language, _ := d.detect.Execute(ctx, asset.Data)
	if language != "" {
		observability.SetSpanAttribute(ctx, observability.AttrLanguage, language)
	}

	text, err := d.transcribe.Execute(ctx, transcription.Request{
		Audio:    asset.Data,
		Language: language,
		Format:   format,
	})
	if err != nil {
		return Outcome{}, apperrors.TranscriptionFailed(err)
	}
	return Success(text, language, format), nil
}

// Available reports how many runs can start without queuing.
func (d *Driver) Available() int { return d.bulkhead.Available() }

// Waiting reports how many runs are queued for a slot.
func (d *Driver) Waiting() int { return d.bulkhead.Waiting() }

func ensureRequestID(ctx context.Context) (context.Context, string) {
	if id := logger.RequestIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return logger.ContextWithRequestID(ctx, id), id
}

func toAppError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	return apperrors.Internal(err)
}
