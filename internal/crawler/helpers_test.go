package crawler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	crawlerconfig "github.com/jonesrussell/north-cloud/job-crawler/internal/config/crawler"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/crawler"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/fetcher"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/results"
	fetchermocks "github.com/jonesrussell/north-cloud/job-crawler/testutils/mocks/fetcher"
	"go.uber.org/mock/gomock"
)

const (
	testOrigin = "https://duunitori.fi"
	page1URL   = testOrigin + "/tyopaikat?haku=python"
	page2URL   = page1URL + "&sivu=2"
)

func jobURL(n int) string {
	return fmt.Sprintf("%s/tyopaikat/tyo/job-%d", testOrigin, n)
}

// listingPage renders a results page linking to the given job numbers with
// pagination controls up to totalPages.
func listingPage(totalPages int, jobs ...int) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"results\">")
	for _, n := range jobs {
		fmt.Fprintf(&b, `<a class="job-box__hover gtm-search-result" href="/tyopaikat/tyo/job-%d" data-company="Company %d">Job %d</a>`, n, n, n)
	}
	b.WriteString("</div>")
	if totalPages > 1 {
		b.WriteString(`<nav class="pagination">`)
		for p := 1; p <= totalPages; p++ {
			fmt.Fprintf(&b, `<a class="pagination__pagenum" href="/tyopaikat?haku=python&sivu=%d">%d</a>`, p, p)
		}
		b.WriteString("</nav>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func detailPage(n int) string {
	return fmt.Sprintf(`<html><body>
<h1 class="header__title">Job %[1]d</h1>
<div class="info-listing">
  <div class="info-listing__block"><h4 class="info-listing__heading">Työpaikan sijainti</h4><div class="info-listing__value"><span>City %[1]d</span></div></div>
  <div class="info-listing__block"><h4 class="info-listing__heading">Toiminimi</h4><div class="info-listing__value"><span>Employer %[1]d</span></div></div>
  <div class="info-listing__block"><h4 class="info-listing__heading">Y-tunnus</h4><div class="info-listing__value"><span>000000%[1]d-0</span></div></div>
  <div class="info-listing__block"><h4 class="info-listing__heading">Toimiala</h4><div class="info-listing__value"><span>IT</span></div></div>
</div>
</body></html>`, n)
}

// fakeSite serves canned documents by URL and records the fetch order.
type fakeSite struct {
	mu      sync.Mutex
	pages   map[string]string
	errs    map[string]error
	hooks   map[string]func()
	fetched []string
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		pages: make(map[string]string),
		errs:  make(map[string]error),
		hooks: make(map[string]func()),
	}
}

// twoPageSite is the 2-page source with 3 and 1 listings.
func twoPageSite() *fakeSite {
	s := newFakeSite()
	s.pages[page1URL] = listingPage(2, 1, 2, 3)
	s.pages[page2URL] = listingPage(2, 4)
	for n := 1; n <= 4; n++ {
		s.pages[jobURL(n)] = detailPage(n)
	}
	return s
}

func (s *fakeSite) fetch(_ context.Context, target string) (*goquery.Document, error) {
	s.mu.Lock()
	s.fetched = append(s.fetched, target)
	hook := s.hooks[target]
	html, ok := s.pages[target]
	err := s.errs[target]
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &fetcher.FetchError{URL: target, StatusCode: http.StatusNotFound, Err: errors.New("not found")}
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (s *fakeSite) history() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetched...)
}

func newController(t *testing.T, site *fakeSite, opts ...crawlerconfig.Option) *crawler.Controller {
	t.Helper()

	ctrl := gomock.NewController(t)
	mock := fetchermocks.NewMockPageFetcher(ctrl)
	mock.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(site.fetch).AnyTimes()

	opts = append([]crawlerconfig.Option{crawlerconfig.WithOrigin(testOrigin), crawlerconfig.WithDelay(0)}, opts...)
	return crawler.NewController(crawlerconfig.New(opts...), mock, nil)
}

type outcome struct {
	progress []crawler.ProgressEvent
	records  []results.Record
	terminal crawler.TerminalEvent
}

// collect drains a run's events until the channel closes.
func collect(t *testing.T, run *crawler.Run) outcome {
	t.Helper()

	var out outcome
	terminals := 0
	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev, ok := <-run.Events():
			if !ok {
				if terminals != 1 {
					t.Fatalf("expected exactly one terminal event, got %d", terminals)
				}
				return out
			}
			switch e := ev.(type) {
			case crawler.ProgressEvent:
				out.progress = append(out.progress, e)
			case crawler.RecordEvent:
				out.records = append(out.records, e.Record)
			case crawler.TerminalEvent:
				terminals++
				out.terminal = e
			}
		case <-timeout:
			t.Fatal("timed out waiting for run events")
		}
	}
}
