package present

import "strings"

// Row is one optional detail line. Href is empty for plain-text rows.
type Row struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	Href  string `json:"href,omitempty"`
}

// IsLink reports whether the row renders as a link.
func (r Row) IsLink() bool {
	return r.Href != ""
}

// OptionalRow returns a text row, or ok=false when value is absent or blank.
func OptionalRow(label string, value *string) (row Row, ok bool) {
	v, ok := present(value)
	if !ok {
		return Row{}, false
	}
	return Row{Label: label, Text: v}, true
}

// LinkRow returns a link row. href and display are derived from the raw value;
// a nil href keeps the value as the target, a nil display keeps it as the text.
func LinkRow(label string, value *string, href, display func(string) string) (row Row, ok bool) {
	v, ok := present(value)
	if !ok {
		return Row{}, false
	}
	row = Row{Label: label, Text: v, Href: v}
	if href != nil {
		row.Href = href(v)
	}
	if display != nil {
		row.Text = display(v)
	}
	return row, true
}

// Rows collects the rows whose builders reported ok, preserving order.
func Rows(builders ...func() (Row, bool)) []Row {
	out := make([]Row, 0, len(builders))
	for _, b := range builders {
		if r, ok := b(); ok {
			out = append(out, r)
		}
	}
	return out
}

func present(value *string) (string, bool) {
	if value == nil {
		return "", false
	}
	v := strings.TrimSpace(*value)
	return v, v != ""
}

// Or returns value when present, else fallback.
func Or(value *string, fallback string) string {
	if v, ok := present(value); ok {
		return v
	}
	return fallback
}
