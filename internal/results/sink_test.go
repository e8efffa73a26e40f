package results_test

import (
	"sync"
	"testing"

	"github.com/jonesrussell/north-cloud/job-crawler/internal/extract"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkAppend(t *testing.T) {
	t.Parallel()

	s := results.NewSink()
	first := s.Append(results.Record{Title: "a", SequenceID: 99})
	second := s.Append(results.Record{Title: "b"})

	assert.Equal(t, 0, first.SequenceID)
	assert.Equal(t, 1, second.SequenceID)
	assert.Equal(t, 2, s.Len())

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "b", got.Title)

	_, ok = s.Get(2)
	assert.False(t, ok)
	_, ok = s.Get(-1)
	assert.False(t, ok)
}

func TestSinkConcurrentAppend(t *testing.T) {
	t.Parallel()

	s := results.NewSink()
	const n = 100

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(results.Record{})
			_ = s.All()
		}()
	}
	wg.Wait()

	all := s.All()
	require.Len(t, all, n)
	for i, r := range all {
		assert.Equal(t, i, r.SequenceID)
	}
}

func TestSinkAllIsSnapshot(t *testing.T) {
	t.Parallel()

	s := results.NewSink()
	s.Append(results.Record{Title: "a"})

	all := s.All()
	all[0].Title = "changed"

	got, _ := s.Get(0)
	assert.Equal(t, "a", got.Title)
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	ref := extract.ListingRef{Link: "https://duunitori.fi/tyopaikat/tyo/1", Title: "Hint"}
	d := extract.UnknownDetail()
	d.Fields[extract.FieldEmployer] = "Acme Oy"

	r := results.NewRecord(ref, d)
	assert.Equal(t, "Hint", r.Title)
	assert.Equal(t, "Acme Oy", r.Employer)
	assert.Equal(t, extract.Unknown, r.Location)
	assert.Equal(t, extract.Unknown, r.Company)
	assert.False(t, r.DetailFailed)

	d.Title = "Detail title"
	assert.Equal(t, "Detail title", results.NewRecord(ref, d).Title)
}

func TestFailedRecord(t *testing.T) {
	t.Parallel()

	ref := extract.ListingRef{Link: "https://duunitori.fi/x", Title: "T", Company: "C"}
	r := results.FailedRecord(ref)

	assert.True(t, r.DetailFailed)
	assert.Equal(t, "T", r.Title)
	assert.Equal(t, "https://duunitori.fi/x", r.Link)
	assert.Equal(t, "C", r.Company)
	for _, v := range []string{r.Location, r.Employer, r.RegistrationID, r.Field} {
		assert.Equal(t, extract.Unknown, v)
	}
}
