package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kbukum/whisper-mcp/audio"
	"github.com/kbukum/whisper-mcp/component"
	"github.com/kbukum/whisper-mcp/logger"
	"github.com/kbukum/whisper-mcp/pipeline"
	"github.com/kbukum/whisper-mcp/provider"
	"github.com/kbukum/whisper-mcp/transcode"
	"github.com/kbukum/whisper-mcp/transcription/whisper"
)

const collaboratorsName = "collaborators"

// collaborators owns the remote clients and the pipeline driver built on
// them. As a component it closes the clients after the listener stops and
// reports their reachability.
type collaborators struct {
	resolver *audio.Resolver
	ffmpeg   transcode.Transcoder
	asr      *whisper.Client
	driver   *pipeline.Driver

	probeTimeout time.Duration
}

var _ component.Component = (*collaborators)(nil)

func newCollaborators(cfg *Config, log *logger.Logger) (*collaborators, error) {
	resolver, err := audio.NewResolver(cfg.Fetch)
	if err != nil {
		return nil, err
	}
	ffmpeg, err := transcode.NewTranscoder(cfg.FFmpeg)
	if err != nil {
		return nil, err
	}
	asr, err := whisper.New(cfg.Whisper)
	if err != nil {
		return nil, err
	}

	driver, err := pipeline.New(cfg.Pipeline, pipeline.Stages{
		Resolver:    resolver,
		Transcoder:  ffmpeg,
		Detector:    asr,
		Transcriber: asr,
	},
		pipeline.WithServiceName(cfg.Name),
		pipeline.WithLogger(log.WithComponent("pipeline")),
	)
	if err != nil {
		return nil, err
	}

	return &collaborators{
		resolver:     resolver,
		ffmpeg:       ffmpeg,
		asr:          asr,
		driver:       driver,
		probeTimeout: provider.DefaultCheckTimeout,
	}, nil
}

func (c *collaborators) Name() string { return collaboratorsName }

func (c *collaborators) Start(context.Context) error { return nil }

// Stop releases idle connections held by every client.
func (c *collaborators) Stop(ctx context.Context) error {
	return errors.Join(
		c.resolver.Close(ctx),
		c.ffmpeg.Close(ctx),
		c.asr.Close(ctx),
	)
}

// Check probes whisper-asr and the transcoder, one entry each.
func (c *collaborators) Check(ctx context.Context) []component.Health {
	return provider.CheckAll(ctx, c.probeTimeout, c.asr, c.ffmpeg)
}

// Health folds Check into a single entry for the readiness probe.
func (c *collaborators) Health(ctx context.Context) component.Health {
	reports := c.Check(ctx)
	h := component.Health{Name: collaboratorsName, Status: component.Overall(reports)}
	var down []string
	for _, r := range reports {
		if r.Status != component.StatusHealthy {
			down = append(down, r.Name)
		}
	}
	if len(down) > 0 {
		h.Message = "unreachable: " + strings.Join(down, ", ")
	}
	return h
}

// Capacity reports free pipeline slots and queued runs.
func (c *collaborators) Capacity() (available, waiting int) {
	return c.driver.Available(), c.driver.Waiting()
}
