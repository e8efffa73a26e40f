// Package storage exports run records to Elasticsearch.
package storage

import (
	"fmt"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/config"
)

const defaultURL = "http://localhost:9200"

// NewClient creates an Elasticsearch client from cfg. API key auth wins over
// basic auth when both are set.
func NewClient(cfg config.ElasticsearchConfig) (*es.Client, error) {
	clientConfig := es.Config{
		Addresses: []string{normalizeURL(cfg.URL)},
	}

	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
	} else if cfg.Username != "" && cfg.Password != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	client, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return client, nil
}

// normalizeURL adds http:// when the scheme is missing.
func normalizeURL(url string) string {
	if url == "" {
		return defaultURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}
