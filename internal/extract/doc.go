// Package extract pulls listing references, pagination controls and labeled
// detail fields out of result and detail page documents.
package extract

// Unknown is the value of any field that could not be extracted.
const Unknown = "-"

// Selectors for the site's result and detail markup.
const (
	resultAnchorSelector = "a.job-box__hover.gtm-search-result"
	pageControlSelector  = "a.pagination__pagenum"
	titleSelector        = "h1.header__title"
	infoBlockSelector    = "div.info-listing"
	infoEntrySelector    = "div.info-listing__block"
	infoHeadingSelector  = "h4.info-listing__heading"
	infoValueSelector    = "div.info-listing__value"
)
