package crawler

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/extract"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/fetcher"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/query"
)

// PaginationResolver discovers how many listing pages a search has.
type PaginationResolver struct {
	fetcher PageFetcher
	builder *query.Builder
}

// NewPaginationResolver creates a resolver.
func NewPaginationResolver(f PageFetcher, b *query.Builder) *PaginationResolver {
	return &PaginationResolver{fetcher: f, builder: b}
}

// Resolve fetches the first listing page and returns the total page count
// together with the parsed first page, so callers can reuse it.
func (r *PaginationResolver) Resolve(ctx context.Context, p profile.Profile) (int, *goquery.Document, error) {
	target := r.builder.Build(p, 1)

	doc, err := r.fetcher.Fetch(ctx, target.URL)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrPaginationFailed, err)
	}

	total, found := extract.PageCount(doc)
	if !found && !extract.HasListings(doc) {
		return 0, nil, fmt.Errorf("%w: %s: no listing structure: %w",
			ErrPaginationFailed, target.URL, fetcher.ErrParseFailed)
	}

	return total, doc, nil
}
