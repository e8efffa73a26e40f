// Package query builds listing-page request targets from a search profile.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
)

const (
	searchPath = "/tyopaikat"

	paramKeywords    = "haku"
	paramLocations   = "alue"
	paramDescription = "search_also_descr"
	paramPage        = "sivu"

	// valueSeparator is the encoded ";" the site uses between values.
	valueSeparator = "%3B"
)

// Target is a listing-page request.
type Target struct {
	URL  string
	Page int
}

// Builder turns profiles into listing-page targets for one origin.
type Builder struct {
	origin string
}

// NewBuilder returns a Builder for origin (scheme and host, no path).
func NewBuilder(origin string) *Builder {
	return &Builder{origin: strings.TrimRight(origin, "/")}
}

// Origin returns the origin targets are built against.
func (b *Builder) Origin() string {
	return b.origin
}

// Build returns the target for the given page. Pages below 1 are treated as 1.
func (b *Builder) Build(p profile.Profile, page int) Target {
	if page < 1 {
		page = 1
	}
	p = p.Normalize()

	// Parameter order is significant and the separator must stay encoded,
	// so url.Values is not used here.
	params := make([]string, 0, 4)
	if len(p.Keywords) > 0 {
		params = append(params, paramKeywords+"="+joinValues(p.Keywords))
	}
	if len(p.Locations) > 0 {
		params = append(params, paramLocations+"="+joinValues(p.Locations))
	}
	if p.SearchDescription {
		params = append(params, paramDescription+"=1")
	}
	if page > 1 {
		params = append(params, paramPage+"="+strconv.Itoa(page))
	}

	target := b.origin + searchPath
	if len(params) > 0 {
		target += "?" + strings.Join(params, "&")
	}

	return Target{URL: target, Page: page}
}

func joinValues(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = url.QueryEscape(v)
	}
	return strings.Join(escaped, valueSeparator)
}
