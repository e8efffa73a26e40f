package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/results"
)

// DefaultIndexTimeout bounds each index request.
const DefaultIndexTimeout = 10 * time.Second

// ErrClientNotInitialized is returned when the indexer has no client.
var ErrClientNotInitialized = errors.New("elasticsearch client is not initialized")

// Document is the indexed form of a record.
type Document struct {
	RunID     string    `json:"run_id"`
	Keywords  []string  `json:"keywords"`
	Locations []string  `json:"locations"`
	IndexedAt time.Time `json:"indexed_at"`
	results.Record
}

// Indexer writes records of one run into an index.
type Indexer struct {
	client  *es.Client
	index   string
	runID   string
	profile profile.Profile
	log     logger.Logger
}

// NewIndexer creates an indexer for the run identified by runID.
func NewIndexer(client *es.Client, index, runID string, p profile.Profile, log logger.Logger) *Indexer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Indexer{
		client:  client,
		index:   index,
		runID:   runID,
		profile: p.Clone(),
		log:     log.With(logger.String("index", index), logger.String("run_id", runID)),
	}
}

// DocumentID returns the id a record is stored under.
func DocumentID(runID string, seq int) string {
	return runID + "-" + strconv.Itoa(seq)
}

// EnsureIndex creates the index with the record mapping if it does not exist.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	if i.client == nil {
		return ErrClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultIndexTimeout)
	defer cancel()

	res, err := i.client.Indices.Exists([]string{i.index}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	i.closeResponse(res)
	if res.StatusCode == http.StatusOK {
		return nil
	}

	var buf bytes.Buffer
	if encodeErr := json.NewEncoder(&buf).Encode(recordMapping); encodeErr != nil {
		return fmt.Errorf("error encoding mapping: %w", encodeErr)
	}

	res, err = i.client.Indices.Create(
		i.index,
		i.client.Indices.Create.WithContext(ctx),
		i.client.Indices.Create.WithBody(&buf),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer i.closeResponse(res)

	if res.IsError() {
		return fmt.Errorf("failed to create index: %s", res.String())
	}

	i.log.Info("Created index")
	return nil
}

// IndexRecord stores one record.
func (i *Indexer) IndexRecord(ctx context.Context, r results.Record) error {
	if i.client == nil {
		return ErrClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultIndexTimeout)
	defer cancel()

	id := DocumentID(i.runID, r.SequenceID)
	body, err := json.Marshal(Document{
		RunID:     i.runID,
		Keywords:  i.profile.Keywords,
		Locations: i.profile.Locations,
		IndexedAt: time.Now().UTC(),
		Record:    r,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal document for indexing: %w", err)
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(body),
		i.client.Index.WithContext(ctx),
		i.client.Index.WithDocumentID(id),
		i.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer i.closeResponse(res)

	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}

	i.log.Debug("Record indexed", logger.String("doc_id", id), logger.String("url", r.Link))
	return nil
}

// Consume indexes every record received on records until it is closed.
// Failures are logged and never stop consumption.
func (i *Indexer) Consume(ctx context.Context, records <-chan results.Record) (indexed, failed int) {
	for r := range records {
		if err := i.IndexRecord(ctx, r); err != nil {
			failed++
			i.log.Error("Failed to index record",
				logger.Int("sequence_id", r.SequenceID),
				logger.Error(err),
			)
			continue
		}
		indexed++
	}
	return indexed, failed
}

func (i *Indexer) closeResponse(res *esapi.Response) {
	if closeErr := res.Body.Close(); closeErr != nil {
		i.log.Error("Failed to close response body", logger.Error(closeErr))
	}
}
