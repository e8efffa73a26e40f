package extract_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const origin = "https://duunitori.fi"

// listingHTML is a results page with three anchors (one without href) and
// pagination controls up to page 5.
const listingHTML = `<!DOCTYPE html>
<html><body>
  <div class="grid">
    <a class="job-box__hover gtm-search-result" href="/tyopaikat/tyo/python-kehittaja-123" data-company="Acme Oy">Python-kehittäjä</a>
    <a class="job-box__hover gtm-search-result" data-company="Nohref Oy">Broken</a>
    <a class="job-box__hover gtm-search-result" href="https://duunitori.fi/tyopaikat/tyo/go-456" title="Go developer"></a>
    <a class="job-box__hover" href="/not-a-result">Other</a>
  </div>
  <nav class="pagination">
    <a class="pagination__pagenum" href="/tyopaikat?haku=python&sivu=2">2</a>
    <a class="pagination__pagenum" href="/tyopaikat?haku=python&sivu=5">5</a>
    <a class="pagination__pagenum" href="/tyopaikat?haku=python&sivu=3">3</a>
  </nav>
</body></html>`

// detailHTML has all four labeled fields plus one unknown heading.
const detailHTML = `<!DOCTYPE html>
<html><body>
  <h1 class="header__title">  Python-kehittäjä
    Helsinki </h1>
  <div class="info-listing">
    <div class="info-listing__block">
      <h4 class="info-listing__heading">Työpaikan sijainti</h4>
      <div class="info-listing__value"><span>Helsinki</span><span>Espoo</span></div>
    </div>
    <div class="info-listing__block">
      <h4 class="info-listing__heading"> Toiminimi </h4>
      <div class="info-listing__value">Acme Oy</div>
    </div>
    <div class="info-listing__block">
      <h4 class="info-listing__heading">Y-tunnus</h4>
      <div class="info-listing__value"><span>1234567-8</span></div>
    </div>
    <div class="info-listing__block">
      <h4 class="info-listing__heading">Toimiala</h4>
      <div class="info-listing__value"><span>Ohjelmistot</span></div>
    </div>
    <div class="info-listing__block">
      <h4 class="info-listing__heading">Palkka</h4>
      <div class="info-listing__value">4000</div>
    </div>
  </div>
</body></html>`

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestListings(t *testing.T) {
	t.Parallel()

	refs := extract.Listings(parse(t, listingHTML), origin)
	require.Len(t, refs, 2)

	assert.Equal(t, extract.ListingRef{
		Link:    "https://duunitori.fi/tyopaikat/tyo/python-kehittaja-123",
		Company: "Acme Oy",
		Title:   "Python-kehittäjä",
	}, refs[0])
	assert.Equal(t, "https://duunitori.fi/tyopaikat/tyo/go-456", refs[1].Link)
	assert.Equal(t, "Go developer", refs[1].Title)
	assert.Empty(t, refs[1].Company)
}

func TestListingsAllAbsolute(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<html><body>")
	const k = 7
	for range k {
		b.WriteString(`<a class="job-box__hover gtm-search-result" href="/tyopaikat/tyo/x">x</a>`)
	}
	b.WriteString("</body></html>")

	refs := extract.Listings(parse(t, b.String()), origin)
	require.Len(t, refs, k)
	for _, ref := range refs {
		assert.True(t, strings.HasPrefix(ref.Link, origin+"/"), ref.Link)
	}
}

func TestListingsEmpty(t *testing.T) {
	t.Parallel()

	doc := parse(t, "<html><body><p>Ei tuloksia</p></body></html>")
	refs := extract.Listings(doc, origin)
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
	assert.False(t, extract.HasListings(doc))
}

func TestPageCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		html      string
		want      int
		wantFound bool
	}{
		{name: "max of hrefs", html: listingHTML, want: 5, wantFound: true},
		{name: "no controls", html: "<html><body><p>x</p></body></html>", want: 1, wantFound: false},
		{
			name:      "text fallback",
			html:      `<html><body><a class="pagination__pagenum" href="#">4</a><a class="pagination__pagenum">9</a></body></html>`,
			want:      9,
			wantFound: true,
		},
		{
			name:      "non numeric controls",
			html:      `<html><body><a class="pagination__pagenum">seuraava</a></body></html>`,
			want:      1,
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, found := extract.PageCount(parse(t, tt.html))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func TestExtractDetail(t *testing.T) {
	t.Parallel()

	d := extract.ExtractDetail(parse(t, detailHTML))

	assert.Equal(t, "Python-kehittäjä Helsinki", d.Title)
	assert.Equal(t, "Helsinki", d.Field(extract.FieldLocation))
	assert.Equal(t, "Acme Oy", d.Field(extract.FieldEmployer))
	assert.Equal(t, "1234567-8", d.Field(extract.FieldRegistrationID))
	assert.Equal(t, "Ohjelmistot", d.Field(extract.FieldIndustry))
	assert.Len(t, d.Fields, len(extract.Fields()))
}

func TestExtractDetailMissingLabel(t *testing.T) {
	t.Parallel()

	html := strings.Replace(detailHTML, "Y-tunnus", "Yritys", 1)
	d := extract.ExtractDetail(parse(t, html))

	assert.Equal(t, extract.Unknown, d.Field(extract.FieldRegistrationID))
	assert.Equal(t, "Helsinki", d.Field(extract.FieldLocation))
	assert.Equal(t, "Acme Oy", d.Field(extract.FieldEmployer))
	assert.Equal(t, "Ohjelmistot", d.Field(extract.FieldIndustry))
}

func TestExtractDetailNoInfoBlock(t *testing.T) {
	t.Parallel()

	d := extract.ExtractDetail(parse(t, `<html><body><h1 class="header__title">Only title</h1></body></html>`))

	assert.Equal(t, "Only title", d.Title)
	for _, id := range extract.Fields() {
		assert.Equal(t, extract.Unknown, d.Field(id), id.String())
	}
}

func TestFieldIDString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "location", extract.FieldLocation.String())
	assert.Equal(t, "industry", extract.FieldIndustry.String())
	assert.Equal(t, "unknown", extract.FieldID(42).String())
}
