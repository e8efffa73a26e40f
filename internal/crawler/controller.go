// Package crawler runs listing crawls: it resolves pagination, walks the
// listing pages in order, extracts each detail page and reports progress
// while staying cancellable between listings.
package crawler

import (
	"context"
	"sync"

	"github.com/google/uuid"
	crawlerconfig "github.com/jonesrussell/north-cloud/job-crawler/internal/config/crawler"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/query"
)

// Controller starts runs, one at a time.
type Controller struct {
	cfg      *crawlerconfig.Config
	fetcher  PageFetcher
	builder  *query.Builder
	resolver *PaginationResolver
	log      logger.Logger

	mu      sync.Mutex
	current *Run
}

// NewController creates a controller that fetches through f.
func NewController(cfg *crawlerconfig.Config, f PageFetcher, log logger.Logger) *Controller {
	if log == nil {
		log = logger.NewNop()
	}
	builder := query.NewBuilder(cfg.Origin)
	return &Controller{
		cfg:      cfg,
		fetcher:  f,
		builder:  builder,
		resolver: NewPaginationResolver(f, builder),
		log:      log,
	}
}

// Start begins a run for p on a new goroutine. It returns ErrRunInProgress
// while a previous run has not reached a terminal status. Cancelling ctx
// cancels the run at its next checkpoint.
func (c *Controller) Start(ctx context.Context, p profile.Profile) (*Run, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && !c.current.finished() {
		return nil, ErrRunInProgress
	}

	run := newRun(uuid.NewString(), p.Normalize().Clone(), c.cfg)
	run.log = c.log.With(logger.String("run_id", run.id))
	c.current = run

	run.log.Info("Starting run",
		logger.Strings("keywords", run.profile.Keywords),
		logger.Strings("locations", run.profile.Locations),
		logger.Bool("search_description", run.profile.SearchDescription),
		logger.Bool("require_all_keywords", run.profile.RequireAllKeywords),
	)

	go run.execute(ctx, c)

	return run, nil
}

// Cancel requests cancellation of the active run.
func (c *Controller) Cancel() error {
	run := c.Current()
	if run == nil || run.finished() {
		return ErrNoRun
	}
	run.Cancel()
	return nil
}

// Current returns the most recent run, finished or not, or nil.
func (c *Controller) Current() *Run {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}
