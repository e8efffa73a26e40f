package crawler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	crawlerconfig "github.com/jonesrussell/north-cloud/job-crawler/internal/config/crawler"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/extract"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/results"
	"golang.org/x/time/rate"
)

// Run is one execution of the crawl loop for a single profile.
//
// Events must be drained by the caller: the worker blocks once the event
// buffer is full.
type Run struct {
	id      string
	profile profile.Profile
	origin  string
	limiter *rate.Limiter
	log     logger.Logger

	sink      *results.Sink
	state     runState
	cancelled atomic.Bool
	events    chan Event
	done      chan struct{}
}

func newRun(id string, p profile.Profile, cfg *crawlerconfig.Config) *Run {
	r := &Run{
		id:      id,
		profile: p,
		origin:  cfg.Origin,
		log:     logger.NewNop(),
		sink:    results.NewSink(),
		events:  make(chan Event, cfg.EventBuffer),
		done:    make(chan struct{}),
	}
	if cfg.Delay > 0 {
		r.limiter = rate.NewLimiter(rate.Every(cfg.Delay), 1)
	}
	r.state.state = State{RunID: id, Status: StatusIdle, StartedAt: time.Now()}
	return r
}

// ID returns the run id.
func (r *Run) ID() string { return r.id }

// Profile returns the profile the run was started with.
func (r *Run) Profile() profile.Profile { return r.profile.Clone() }

// Events returns the run's event stream. It ends with one TerminalEvent and
// is then closed.
func (r *Run) Events() <-chan Event { return r.events }

// Sink returns the run's records.
func (r *Run) Sink() *results.Sink { return r.sink }

// State returns a snapshot of the run's progress.
func (r *Run) State() State { return r.state.snapshot() }

// Cancel requests cancellation. The worker observes it after the current
// listing or page; an in-flight request is not interrupted.
func (r *Run) Cancel() {
	if r.cancelled.CompareAndSwap(false, true) {
		r.log.Info("Cancellation requested")
	}
}

// Done is closed after the terminal event has been sent.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run finishes and returns its terminal error, which is
// nil for completed and cancelled runs.
func (r *Run) Wait() error {
	<-r.done
	return r.state.error()
}

func (r *Run) finished() bool {
	return r.state.snapshot().Status.Terminal()
}

// shouldStop is the cancellation checkpoint.
func (r *Run) shouldStop(ctx context.Context) bool {
	return r.cancelled.Load() || ctx.Err() != nil
}

// pace waits for the courtesy delay before a request.
func (r *Run) pace(ctx context.Context) error {
	if r.limiter == nil {
		return nil
	}
	return r.limiter.Wait(ctx)
}

func (r *Run) emit(ev Event) {
	r.events <- ev
}

func (r *Run) execute(ctx context.Context, c *Controller) {
	start := time.Now()
	status, err := r.crawl(ctx, c)

	r.state.finish(status, err)
	state := r.state.snapshot()

	fields := []logger.Field{
		logger.String("status", status.String()),
		logger.Int("records", state.Records),
		logger.Int("current_page", state.CurrentPage),
		logger.Int("total_pages", state.TotalPages),
		logger.Duration("duration", time.Since(start)),
	}
	if err != nil {
		r.log.Error("Run failed", append(fields, logger.Error(err))...)
	} else {
		r.log.Info("Run finished", fields...)
	}

	r.emit(TerminalEvent{Status: status, Err: err})
	close(r.events)
	close(r.done)
}

func (r *Run) crawl(ctx context.Context, c *Controller) (Status, error) {
	if err := r.pace(ctx); err != nil {
		return StatusCancelled, nil
	}

	total, first, err := c.resolver.Resolve(ctx, r.profile)
	if err != nil {
		if r.shouldStop(ctx) {
			return StatusCancelled, nil
		}
		return StatusFailed, err
	}

	r.state.running(total)
	r.log.Info("Resolved pagination", logger.Int("total_pages", total))
	if r.shouldStop(ctx) {
		return StatusCancelled, nil
	}

	for page := 1; page <= total; page++ {
		doc := first
		if page > 1 {
			if err := r.pace(ctx); err != nil {
				return StatusCancelled, nil
			}
			target := c.builder.Build(r.profile, page)
			doc, err = c.fetcher.Fetch(ctx, target.URL)
			if err != nil {
				if r.shouldStop(ctx) {
					return StatusCancelled, nil
				}
				return StatusFailed, fmt.Errorf("%w: page %d: %w", ErrListingPageFailed, page, err)
			}
			if r.shouldStop(ctx) {
				return StatusCancelled, nil
			}
		}

		if stopped := r.crawlPage(ctx, c, page, doc); stopped {
			return StatusCancelled, nil
		}

		r.state.pageDone(page)
		r.emit(ProgressEvent{Page: page, TotalPages: total})

		if r.shouldStop(ctx) {
			return StatusCancelled, nil
		}
	}

	return StatusCompleted, nil
}

// crawlPage processes every listing on one page in document order and
// reports whether cancellation was observed.
func (r *Run) crawlPage(ctx context.Context, c *Controller, page int, doc *goquery.Document) bool {
	refs := extract.Listings(doc, r.origin)
	r.log.Debug("Processing listing page", logger.Int("page", page), logger.Int("listings", len(refs)))

	for _, ref := range refs {
		record, ok := r.visit(ctx, c, ref)
		if !ok {
			return true
		}

		record = r.sink.Append(record)
		r.state.recordAdded()
		r.emit(RecordEvent{Record: record})

		if r.shouldStop(ctx) {
			return true
		}
	}
	return false
}

// visit fetches and extracts one detail page. It returns false when the run
// was cancelled before the record could be built.
func (r *Run) visit(ctx context.Context, c *Controller, ref extract.ListingRef) (results.Record, bool) {
	if err := r.pace(ctx); err != nil {
		return results.Record{}, false
	}

	doc, err := c.fetcher.Fetch(ctx, ref.Link)
	if err != nil {
		if ctx.Err() != nil {
			return results.Record{}, false
		}
		r.log.Warn("Detail page failed, keeping listing with unknown fields",
			logger.String("url", ref.Link),
			logger.Error(err),
		)
		return results.FailedRecord(ref), true
	}

	return results.NewRecord(ref, extract.ExtractDetail(doc)), true
}
