package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ListingRef is one result on a listing page.
type ListingRef struct {
	Link    string
	Company string
	Title   string
}

// Listings returns every result anchor in document order with its link
// resolved against origin. Anchors without an href are skipped.
func Listings(doc *goquery.Document, origin string) []ListingRef {
	base, _ := url.Parse(origin)

	refs := make([]ListingRef, 0)
	doc.Find(resultAnchorSelector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}

		refs = append(refs, ListingRef{
			Link:    resolve(base, href),
			Company: strings.TrimSpace(s.AttrOr("data-company", "")),
			Title:   anchorTitle(s),
		})
	})
	return refs
}

// HasListings reports whether doc contains any result anchor.
func HasListings(doc *goquery.Document) bool {
	return doc.Find(resultAnchorSelector).Length() > 0
}

func anchorTitle(s *goquery.Selection) string {
	if text := normalizeSpace(s.Text()); text != "" {
		return text
	}
	return strings.TrimSpace(s.AttrOr("title", ""))
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
