package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Style is the semantic style of a segment: a SeverityTag, "label" or "plain".
type Style string

const (
	StyleLabel Style = "label"
	StylePlain Style = "plain"
)

// StyleOf returns the segment style for a severity tag.
func StyleOf(t SeverityTag) Style { return Style(t) }

// Segment is one piece of text a presenter has to display.
type Segment struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// Field is one entry of a record's extra mapping. Value holds the raw JSON.
type Field struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// LogRecord is a parsed log line. Treat it as immutable once built.
type LogRecord struct {
	Line      int       `json:"line"`
	Raw       string    `json:"raw"`
	Timestamp string    `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Extra     []Field   `json:"extra,omitempty"`
	Segments  []Segment `json:"-"`
}

// Tag returns the severity bucket of the record.
func (r LogRecord) Tag() SeverityTag { return TagOf(r.Level) }

// Text concatenates every segment text.
func (r LogRecord) Text() string {
	var b strings.Builder
	for _, s := range r.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// ExtraMap returns the extra fields decoded into Go values.
func (r LogRecord) ExtraMap() map[string]any {
	out := make(map[string]any, len(r.Extra))
	for _, f := range r.Extra {
		var v any
		if err := json.Unmarshal(f.Value, &v); err == nil {
			out[f.Key] = v
		}
	}
	return out
}

// ExtraJSON renders the extra fields as a compact JSON object, keeping file
// order.
func (r LogRecord) ExtraJSON() string {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range r.Extra {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(f.Key)
		b.Write(k)
		b.WriteByte(':')
		b.Write(f.Value)
	}
	b.WriteByte('}')
	var out bytes.Buffer
	if err := json.Compact(&out, b.Bytes()); err != nil {
		return b.String()
	}
	return out.String()
}
