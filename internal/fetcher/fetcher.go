// Package fetcher retrieves pages over HTTP and parses them into goquery
// documents.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"
	crawlerconfig "github.com/jonesrussell/north-cloud/job-crawler/internal/config/crawler"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
)

// Fetcher performs single blocking GET requests. It never retries and never
// sleeps; pacing belongs to the caller.
type Fetcher struct {
	userAgent      string
	requestTimeout time.Duration
	maxBodySize    int
	log            logger.Logger
}

// New creates a Fetcher from the crawler configuration.
func New(cfg *crawlerconfig.Config, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Fetcher{
		userAgent:      cfg.UserAgent,
		requestTimeout: cfg.RequestTimeout,
		maxBodySize:    cfg.MaxBodySize,
		log:            log,
	}
}

// Fetch retrieves target and parses the body.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*goquery.Document, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(f.userAgent),
		colly.MaxBodySize(f.maxBodySize),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		// Non-2xx responses are classified below instead of surfacing as
		// colly errors without a status code.
		colly.ParseHTTPErrorResponse(),
	)
	if f.requestTimeout > 0 {
		c.SetRequestTimeout(f.requestTimeout)
	}

	var (
		status int
		body   []byte
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	start := time.Now()
	if err := c.Request(http.MethodGet, target, nil, nil, nil); err != nil {
		return nil, &FetchError{URL: target, StatusCode: status, Err: err}
	}

	f.log.Debug("Fetched page",
		logger.String("url", target),
		logger.Int("status", status),
		logger.Int("bytes", len(body)),
		logger.Duration("duration", time.Since(start)),
	)

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &FetchError{URL: target, StatusCode: status, Err: errors.New(http.StatusText(status))}
	}

	return parse(target, body)
}

func parse(target string, body []byte) (*goquery.Document, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%s: empty body: %w", target, ErrParseFailed)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", target, ErrParseFailed, err)
	}

	// The HTML parser synthesizes html/head/body for any input, so require
	// at least some element or text inside the body.
	bodySel := doc.Find("body")
	if bodySel.Children().Length() == 0 && strings.TrimSpace(bodySel.Text()) == "" {
		return nil, fmt.Errorf("%s: no element content: %w", target, ErrParseFailed)
	}

	return doc, nil
}
