// Package crawl implements the crawl command.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonesrussell/north-cloud/job-crawler/cmd/common"
	crawlerconfig "github.com/jonesrussell/north-cloud/job-crawler/internal/config/crawler"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/crawler"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/fetcher"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/output"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/results"
	"github.com/spf13/cobra"
)

const (
	flagProfile = "profile"
	flagFormat  = "format"
	flagIndex   = "index"
	flagDelay   = "delay"
)

// ErrRunFailed is returned when the run ends in the Failed status.
var ErrRunFailed = errors.New("crawl failed")

// Command returns the crawl command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Run one crawl and print the collected listings",
		Long: `Crawl searches with the given profile, visits every listing on every
result page and prints one row per listing once the run ends.

Press Ctrl+C once to stop after the listing in progress; the rows collected
so far are still printed. Press it again to abort immediately.`,
		Example: `  job-crawler crawl -k python,go -l Helsinki
  job-crawler crawl --profile profile.txt --format csv > jobs.csv`,
		RunE: runCrawl,
	}

	common.AddProfileFlags(cmd)
	cmd.Flags().String(flagProfile, "", "profile file to start from; flags override its values")
	cmd.Flags().StringP(flagFormat, "f", string(output.FormatTable), "output format: table, csv or markdown")
	cmd.Flags().Bool(flagIndex, false, "index records into Elasticsearch")
	cmd.Flags().String(flagDelay, "", "courtesy delay between requests (e.g. 500ms or 1.5)")

	return cmd
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	format, err := output.ParseFormat(mustString(cmd, flagFormat))
	if err != nil {
		return err
	}

	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}

	deps, err := common.NewCommandDeps()
	if err != nil {
		return err
	}
	log := deps.Logger
	defer func() { _ = log.Sync() }()

	if raw := mustString(cmd, flagDelay); raw != "" {
		delay, parseErr := crawlerconfig.ParseDelay(raw)
		if parseErr != nil {
			return fmt.Errorf("--%s: %w", flagDelay, parseErr)
		}
		deps.Config.Crawler.Delay = delay
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	controller := crawler.NewController(deps.Config.Crawler, fetcher.New(deps.Config.Crawler, log), log)
	run, err := controller.Start(ctx, p)
	if err != nil {
		return fmt.Errorf("start crawl: %w", err)
	}

	stopSignals := handleSignals(run, cancel, log)
	defer stopSignals()

	index := deps.Config.Elasticsearch.Enabled || mustBool(cmd, flagIndex)
	records, indexDone, err := startIndexing(ctx, deps, run, index)
	if err != nil {
		run.Cancel()
		drain(run)
		return err
	}

	terminal := consume(run, records, log)
	if records != nil {
		close(records)
		<-indexDone
	}

	if renderErr := output.Render(cmd.OutOrStdout(), format, run.Sink().All()); renderErr != nil {
		return fmt.Errorf("render results: %w", renderErr)
	}

	return terminalError(terminal)
}

func loadProfile(cmd *cobra.Command) (profile.Profile, error) {
	base := profile.New(nil, nil, false)
	if path := mustString(cmd, flagProfile); path != "" {
		loaded, err := profile.LoadFile(path)
		if err != nil {
			return profile.Profile{}, err
		}
		base = loaded
	}
	return common.ApplyProfileFlags(cmd, base)
}

// handleSignals turns the first interrupt into a cooperative cancel and the
// second into a context cancel.
func handleSignals(run *crawler.Run, cancel context.CancelFunc, log logger.Logger) func() {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		count := 0
		for {
			select {
			case sig := <-sigChan:
				count++
				if count == 1 {
					log.Info("Cancelling crawl, press Ctrl+C again to abort", logger.String("signal", sig.String()))
					run.Cancel()
					continue
				}
				log.Warn("Aborting crawl", logger.String("signal", sig.String()))
				cancel()
				return
			case <-run.Done():
				return
			}
		}
	}()

	return func() { signal.Stop(sigChan) }
}

// startIndexing returns a nil channel when indexing is off.
func startIndexing(
	ctx context.Context,
	deps common.CommandDeps,
	run *crawler.Run,
	enabled bool,
) (chan results.Record, <-chan struct{}, error) {
	if !enabled {
		return nil, nil, nil
	}

	indexer, err := common.NewIndexer(ctx, deps.Config.Elasticsearch, run.ID(), run.Profile(), deps.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("set up indexing: %w", err)
	}

	records := make(chan results.Record, deps.Config.Crawler.EventBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		// The run context may be aborted; flush what was collected anyway.
		indexed, failed := indexer.Consume(context.WithoutCancel(ctx), records)
		deps.Logger.Info("Indexing finished",
			logger.Int("indexed", indexed),
			logger.Int("failed", failed),
			logger.String("index", deps.Config.Elasticsearch.Index),
		)
	}()
	return records, done, nil
}

// consume drains run events until the terminal event and returns it.
func consume(run *crawler.Run, records chan<- results.Record, log logger.Logger) crawler.TerminalEvent {
	var terminal crawler.TerminalEvent
	for ev := range run.Events() {
		switch e := ev.(type) {
		case crawler.ProgressEvent:
			log.Info("Page done",
				logger.Int("page", e.Page),
				logger.Int("total_pages", e.TotalPages),
			)
		case crawler.RecordEvent:
			log.Debug("Listing collected",
				logger.Int("seq", e.Record.SequenceID),
				logger.String("title", e.Record.Title),
				logger.Bool("detail_failed", e.Record.DetailFailed),
			)
			if records != nil {
				records <- e.Record
			}
		case crawler.TerminalEvent:
			terminal = e
		}
	}
	return terminal
}

func drain(run *crawler.Run) {
	for range run.Events() {
	}
}

func terminalError(t crawler.TerminalEvent) error {
	if t.Status != crawler.StatusFailed {
		return nil
	}
	if t.Err != nil {
		return fmt.Errorf("%w: %w", ErrRunFailed, t.Err)
	}
	return ErrRunFailed
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}
