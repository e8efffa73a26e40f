package common

import (
	"context"
	"fmt"

	"github.com/jonesrussell/north-cloud/job-crawler/internal/config"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/storage"
)

// NewIndexer connects to Elasticsearch and makes sure the record index
// exists.
func NewIndexer(
	ctx context.Context,
	cfg config.ElasticsearchConfig,
	runID string,
	p profile.Profile,
	log logger.Logger,
) (*storage.Indexer, error) {
	client, err := storage.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	indexer := storage.NewIndexer(client, cfg.Index, runID, p, log)
	if err := indexer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure index %s: %w", cfg.Index, err)
	}
	return indexer, nil
}
