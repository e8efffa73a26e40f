package crawler

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

//go:generate mockgen -destination=../../testutils/mocks/fetcher/mock_fetcher.go -package=fetcher . PageFetcher

// PageFetcher retrieves and parses one page. Implementations return errors
// satisfying errors.Is with fetcher.ErrFetchFailed or fetcher.ErrParseFailed.
type PageFetcher interface {
	Fetch(ctx context.Context, target string) (*goquery.Document, error)
}
