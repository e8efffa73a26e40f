package extract

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const pageParam = "sivu"

// PageCount returns the highest page number among the pagination controls in
// doc, and whether any control was found. With no controls the count is 1.
func PageCount(doc *goquery.Document) (int, bool) {
	controls := doc.Find(pageControlSelector)
	if controls.Length() == 0 {
		return 1, false
	}

	highest := 1
	controls.Each(func(_ int, s *goquery.Selection) {
		if n, ok := controlPage(s); ok && n > highest {
			highest = n
		}
	})
	return highest, true
}

// controlPage reads a control's page number from its href, falling back to
// its text.
func controlPage(s *goquery.Selection) (int, bool) {
	if href, ok := s.Attr("href"); ok {
		if u, err := url.Parse(href); err == nil {
			if n, convErr := strconv.Atoi(u.Query().Get(pageParam)); convErr == nil && n > 0 {
				return n, true
			}
		}
	}

	n, err := strconv.Atoi(strings.TrimSpace(s.Text()))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
