// Package results holds the ordered records collected during a run.
package results

import "github.com/jonesrussell/north-cloud/job-crawler/internal/extract"

// Record is one fully extracted listing.
type Record struct {
	SequenceID     int    `json:"sequence_id"`
	Title          string `json:"title"`
	Link           string `json:"link"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	Employer       string `json:"employer"`
	RegistrationID string `json:"registration_id"`
	Field          string `json:"field"`
	DetailFailed   bool   `json:"detail_failed"`
}

// NewRecord builds a record from a listing reference and its detail. The
// detail page title wins over the listing's title hint when present.
func NewRecord(ref extract.ListingRef, d extract.Detail) Record {
	title := d.Title
	if title == "" {
		title = ref.Title
	}
	if title == "" {
		title = extract.Unknown
	}

	return Record{
		Title:          title,
		Link:           ref.Link,
		Company:        orUnknown(ref.Company),
		Location:       d.Field(extract.FieldLocation),
		Employer:       d.Field(extract.FieldEmployer),
		RegistrationID: d.Field(extract.FieldRegistrationID),
		Field:          d.Field(extract.FieldIndustry),
	}
}

// FailedRecord builds the record kept for a listing whose detail page could
// not be fetched or parsed.
func FailedRecord(ref extract.ListingRef) Record {
	r := NewRecord(ref, extract.UnknownDetail())
	r.DetailFailed = true
	return r
}

func orUnknown(s string) string {
	if s == "" {
		return extract.Unknown
	}
	return s
}
