package notion

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Page is one row of the queried database.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// Property returns the named property and whether it is present.
func (p Page) Property(name string) (Property, bool) {
	prop, ok := p.Properties[name]
	return prop, ok
}

// Property is the tagged value of one database column. Only the field
// matching Type is populated. Decoding is fail-soft: a field whose payload
// does not match the expected shape is left absent instead of failing the
// whole page.
type Property struct {
	Type     string
	Title    []TextFragment
	RichText []TextFragment
	Checkbox *bool
	Date     *DateRange
	Files    []FileRef
	Number   *float64
	Select   *SelectOption
	URL      *string
}

// UnmarshalJSON decodes the property field-by-field so that a single
// malformed column cannot poison the record.
func (p *Property) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not even an object; treat as an absent property.
		return nil
	}

	if value, ok := raw["type"]; ok {
		_ = json.Unmarshal(value, &p.Type)
	}
	if value, ok := raw["title"]; ok {
		_ = json.Unmarshal(value, &p.Title)
	}
	if value, ok := raw["rich_text"]; ok {
		_ = json.Unmarshal(value, &p.RichText)
	}
	// Pointer variants decode into locals first: unmarshalling into the
	// field directly would allocate the pointer before the type error, so a
	// malformed column would read as a zero value instead of absent. JSON
	// null stays absent too.
	if value, ok := raw["checkbox"]; ok && !isNull(value) {
		var checkbox bool
		if json.Unmarshal(value, &checkbox) == nil {
			p.Checkbox = &checkbox
		}
	}
	if value, ok := raw["date"]; ok && !isNull(value) {
		var date DateRange
		if json.Unmarshal(value, &date) == nil {
			p.Date = &date
		}
	}
	if value, ok := raw["files"]; ok {
		_ = json.Unmarshal(value, &p.Files)
	}
	if value, ok := raw["number"]; ok && !isNull(value) {
		var number float64
		if json.Unmarshal(value, &number) == nil {
			p.Number = &number
		}
	}
	if value, ok := raw["select"]; ok && !isNull(value) {
		var selected SelectOption
		if json.Unmarshal(value, &selected) == nil {
			p.Select = &selected
		}
	}
	if value, ok := raw["url"]; ok && !isNull(value) {
		var url string
		if json.Unmarshal(value, &url) == nil {
			p.URL = &url
		}
	}
	return nil
}

func isNull(value json.RawMessage) bool {
	return string(bytes.TrimSpace(value)) == "null"
}

// PlainText concatenates the fragments of a title or rich_text property in
// source order.
func (p Property) PlainText() string {
	fragments := p.Title
	if len(fragments) == 0 {
		fragments = p.RichText
	}
	if len(fragments) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, fragment := range fragments {
		sb.WriteString(fragment.PlainText)
	}
	return sb.String()
}

// TextFragment is one run of text inside a title or rich_text value.
type TextFragment struct {
	PlainText string `json:"plain_text"`
}

// DateRange is the value of a date property; either bound may be empty.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FileRef is one entry of a files property, hosted either by Notion itself
// or externally.
type FileRef struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	File     *HostedFile `json:"file,omitempty"`
	External *HostedFile `json:"external,omitempty"`
}

// DownloadURL returns the usable URL of the entry, or "" when absent.
func (f FileRef) DownloadURL() string {
	if f.File != nil && f.File.URL != "" {
		return f.File.URL
	}
	if f.External != nil {
		return f.External.URL
	}
	return ""
}

// HostedFile wraps the url payload of a file entry.
type HostedFile struct {
	URL string `json:"url"`
}

// SelectOption is the chosen value of a select property.
type SelectOption struct {
	Name string `json:"name"`
}
