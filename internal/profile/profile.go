// Package profile defines the search profile that drives a crawl and the
// line-oriented text format profiles are persisted in.
package profile

import "strings"

// valueSeparator is the site's multi-value separator.
const valueSeparator = ";"

// Profile is a normalized set of keywords, locations and flags.
// Empty Keywords or Locations mean the dimension is unfiltered.
type Profile struct {
	Keywords          []string `json:"keywords"`
	Locations         []string `json:"locations"`
	SearchDescription bool     `json:"search_description"`
	// RequireAllKeywords is persisted as includeAll. It is carried with the
	// profile but the crawl does not filter on it.
	RequireAllKeywords bool `json:"require_all_keywords"`
}

// New builds a normalized profile.
func New(keywords, locations []string, searchDescription bool) Profile {
	return Profile{
		Keywords:          keywords,
		Locations:         locations,
		SearchDescription: searchDescription,
	}.Normalize()
}

// Normalize returns a copy with values trimmed and empty entries removed.
// A ';' inside a value splits it, since the search query joins values with
// the encoded ';'.
func (p Profile) Normalize() Profile {
	p.Keywords = cleanValues(p.Keywords)
	p.Locations = cleanValues(p.Locations)
	return p
}

// Clone returns a deep copy so a run can own its profile.
func (p Profile) Clone() Profile {
	p.Keywords = append([]string(nil), p.Keywords...)
	p.Locations = append([]string(nil), p.Locations...)
	return p
}

// SplitList splits comma separated user input into values.
func SplitList(s string) []string {
	return cleanValues(strings.Split(s, ","))
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for part := range strings.SplitSeq(v, valueSeparator) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
