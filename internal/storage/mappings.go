package storage

// recordMapping is the index mapping for exported records.
var recordMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"run_id":          map[string]any{"type": "keyword"},
			"sequence_id":     map[string]any{"type": "integer"},
			"title":           map[string]any{"type": "text"},
			"link":            map[string]any{"type": "keyword"},
			"company":         map[string]any{"type": "keyword"},
			"location":        map[string]any{"type": "keyword"},
			"employer":        map[string]any{"type": "keyword"},
			"registration_id": map[string]any{"type": "keyword"},
			"field":           map[string]any{"type": "keyword"},
			"detail_failed":   map[string]any{"type": "boolean"},
			"keywords":        map[string]any{"type": "keyword"},
			"locations":       map[string]any{"type": "keyword"},
			"indexed_at":      map[string]any{"type": "date"},
		},
	},
}
