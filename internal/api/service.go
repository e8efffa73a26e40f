// Package api exposes the crawl controller over HTTP.
package api

import (
	"context"
	"errors"

	"github.com/jonesrussell/north-cloud/job-crawler/internal/crawler"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/results"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/sse"
)

// RecordIndexer stores records of one run.
type RecordIndexer interface {
	IndexRecord(ctx context.Context, r results.Record) error
}

// IndexerFactory returns the indexer for a new run, or nil to skip indexing.
type IndexerFactory func(ctx context.Context, runID string, p profile.Profile) RecordIndexer

// RunService owns one controller and forwards run events to the SSE broker
// and the optional indexer.
type RunService struct {
	ctx        context.Context
	controller *crawler.Controller
	broker     sse.Broker
	indexers   IndexerFactory
	log        logger.Logger
}

// NewRunService creates a service. Runs live as long as ctx, not as long as
// the request that started them.
func NewRunService(
	ctx context.Context,
	controller *crawler.Controller,
	broker sse.Broker,
	indexers IndexerFactory,
	log logger.Logger,
) *RunService {
	if log == nil {
		log = logger.NewNop()
	}
	return &RunService{
		ctx:        ctx,
		controller: controller,
		broker:     broker,
		indexers:   indexers,
		log:        log,
	}
}

// Start begins a run and its event pump.
func (s *RunService) Start(p profile.Profile) (*crawler.Run, error) {
	run, err := s.controller.Start(s.ctx, p)
	if err != nil {
		return nil, err
	}

	var indexer RecordIndexer
	if s.indexers != nil {
		indexer = s.indexers(s.ctx, run.ID(), run.Profile())
	}

	s.publish(sse.EventTypeRunStarted, run.ID(), run.State())
	go s.pump(run, indexer)

	return run, nil
}

// Cancel requests cancellation of the active run.
func (s *RunService) Cancel() error {
	return s.controller.Cancel()
}

// Current returns the latest run or ErrNoRun.
func (s *RunService) Current() (*crawler.Run, error) {
	run := s.controller.Current()
	if run == nil {
		return nil, crawler.ErrNoRun
	}
	return run, nil
}

func (s *RunService) pump(run *crawler.Run, indexer RecordIndexer) {
	for ev := range run.Events() {
		switch e := ev.(type) {
		case crawler.ProgressEvent:
			s.publish(sse.EventTypeRunProgress, run.ID(), progressPayload{
				RunID:      run.ID(),
				Page:       e.Page,
				TotalPages: e.TotalPages,
			})
		case crawler.RecordEvent:
			if indexer != nil {
				if err := indexer.IndexRecord(s.ctx, e.Record); err != nil {
					s.log.Error("Failed to index record",
						logger.String("run_id", run.ID()),
						logger.Int("sequence_id", e.Record.SequenceID),
						logger.Error(err),
					)
				}
			}
			s.publish(sse.EventTypeRunRecord, run.ID(), e.Record)
		case crawler.TerminalEvent:
			payload := terminalPayload{RunID: run.ID(), Status: e.Status.String()}
			if e.Err != nil {
				payload.Error = e.Err.Error()
			}
			s.publish(sse.EventTypeRunTerminal, run.ID(), payload)
		}
	}
}

func (s *RunService) publish(eventType, runID string, data any) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(s.ctx, sse.Event{Type: eventType, Data: data, ID: runID}); err != nil {
		if errors.Is(err, sse.ErrBufferFull) {
			s.log.Warn("Dropped SSE event", logger.String("event_type", eventType))
			return
		}
		s.log.Debug("Failed to publish SSE event", logger.Error(err))
	}
}

type progressPayload struct {
	RunID      string `json:"run_id"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
}

type terminalPayload struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
