package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// FieldID identifies a labeled detail field.
type FieldID int

const (
	FieldLocation FieldID = iota
	FieldEmployer
	FieldRegistrationID
	FieldIndustry
)

var fieldNames = map[FieldID]string{
	FieldLocation:       "location",
	FieldEmployer:       "employer",
	FieldRegistrationID: "registration_id",
	FieldIndustry:       "industry",
}

func (f FieldID) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// Fields lists every FieldID in display order.
func Fields() []FieldID {
	return []FieldID{FieldLocation, FieldEmployer, FieldRegistrationID, FieldIndustry}
}

// labels maps normalized info headings to fields.
var labels = map[string]FieldID{
	"Työpaikan sijainti": FieldLocation,
	"Toiminimi":          FieldEmployer,
	"Y-tunnus":           FieldRegistrationID,
	"Toimiala":           FieldIndustry,
}

// Detail is the extracted content of a detail page.
type Detail struct {
	Title  string
	Fields map[FieldID]string
}

// Field returns the value for id, or Unknown.
func (d Detail) Field(id FieldID) string {
	if v, ok := d.Fields[id]; ok && v != "" {
		return v
	}
	return Unknown
}

// UnknownDetail returns a Detail with every field set to Unknown.
func UnknownDetail() Detail {
	fields := make(map[FieldID]string, len(labels))
	for _, id := range Fields() {
		fields[id] = Unknown
	}
	return Detail{Fields: fields}
}

// ExtractDetail reads the title and the labeled info block from doc.
// Unmatched headings are ignored; fields without a heading stay Unknown.
func ExtractDetail(doc *goquery.Document) Detail {
	d := UnknownDetail()
	d.Title = normalizeSpace(doc.Find(titleSelector).First().Text())

	doc.Find(infoBlockSelector).First().Find(infoEntrySelector).Each(func(_ int, s *goquery.Selection) {
		heading := normalizeSpace(s.Find(infoHeadingSelector).First().Text())
		id, ok := labels[heading]
		if !ok {
			return
		}
		if value := entryValue(s.Find(infoValueSelector).First()); value != "" {
			d.Fields[id] = value
		}
	})

	return d
}

func entryValue(s *goquery.Selection) string {
	if span := s.Find("span").First(); span.Length() > 0 {
		if text := normalizeSpace(span.Text()); text != "" {
			return text
		}
	}
	return normalizeSpace(s.Text())
}
