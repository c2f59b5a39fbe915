package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"

	"kasalog/internal/model"
)

const (
	DefaultTime    = "Unknown time"
	DefaultMessage = "No message"
)

// DecodeError reports a line that is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "Error parsing log string: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// SchemaError reports valid JSON that lacks a required key or has one with
// the wrong type.
type SchemaError struct {
	Path    string
	Missing bool
}

func (e *SchemaError) Error() string {
	if e.Missing {
		return fmt.Sprintf("Missing expected key: '%s'", e.Path)
	}
	return fmt.Sprintf("Unexpected type for key: '%s'", e.Path)
}

// Parser turns raw lines into records.
type Parser interface {
	Parse(line string, lineNo int) model.LogRecord
}

// RecordParser decodes loguru-style serialized records.
type RecordParser struct{}

func NewParser() *RecordParser { return &RecordParser{} }

func (p *RecordParser) Parse(line string, lineNo int) model.LogRecord {
	return ParseLine(line, lineNo)
}

// ParseLine never fails: decode and schema problems come back as an ERROR
// record carrying the message.
func ParseLine(line string, lineNo int) (rec model.LogRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = ErrorRecord(line, lineNo, fmt.Sprintf("An unexpected error occurred: %v", r))
		}
	}()
	rec, err := Decode(line, lineNo)
	if err != nil {
		return ErrorRecord(line, lineNo, err.Error())
	}
	return rec
}

// ErrorRecord builds the single-segment record shown for a line that failed.
func ErrorRecord(line string, lineNo int, msg string) model.LogRecord {
	return model.LogRecord{
		Line:     lineNo,
		Raw:      line,
		Level:    string(model.TagError),
		Message:  msg,
		Segments: []model.Segment{{Text: msg, Style: model.StyleOf(model.TagError)}},
	}
}

// Decode parses one line and reports *DecodeError or *SchemaError on failure.
func Decode(line string, lineNo int) (model.LogRecord, error) {
	data := []byte(line)
	var whole json.RawMessage
	if err := json.Unmarshal(data, &whole); err != nil {
		return model.LogRecord{}, &DecodeError{Err: err}
	}
	if t := bytes.TrimSpace(data); len(t) == 0 || t[0] != '{' {
		return model.LogRecord{}, &SchemaError{Path: "record", Missing: true}
	}

	record, err := object(data, "record", "record")
	if err != nil {
		return model.LogRecord{}, err
	}
	levelObj, err := object(record, "record.level", "level")
	if err != nil {
		return model.LogRecord{}, err
	}
	levelName, err := stringAt(levelObj, "record.level.name", "name")
	if err != nil {
		return model.LogRecord{}, err
	}

	ts := DefaultTime
	timeObj, err := optionalObject(record, "record.time", "time")
	if err != nil {
		return model.LogRecord{}, err
	}
	if timeObj != nil {
		repr, err := stringAt(timeObj, "record.time.repr", "repr")
		var se *SchemaError
		switch {
		case err == nil:
			ts = repr
		case errors.As(err, &se) && se.Missing:
		default:
			return model.LogRecord{}, err
		}
	}

	msg, err := stringAt(record, "record.message", "message")
	var se *SchemaError
	if err != nil {
		if !errors.As(err, &se) || !se.Missing {
			return model.LogRecord{}, err
		}
		msg = DefaultMessage
	}

	extra, err := extraFields(record)
	if err != nil {
		return model.LogRecord{}, err
	}

	rec := model.LogRecord{
		Line:      lineNo,
		Raw:       line,
		Timestamp: NormalizeTimestamp(ts),
		Level:     model.NormalizeLevel(levelName),
		Message:   msg,
		Extra:     extra,
	}
	rec.Segments = buildSegments(rec)
	return rec, nil
}

func buildSegments(r model.LogRecord) []model.Segment {
	segs := make([]model.Segment, 0, 6+2*len(r.Extra))
	segs = append(segs,
		model.Segment{Text: "Timestamp: ", Style: model.StyleLabel},
		model.Segment{Text: r.Timestamp + "\n", Style: model.StylePlain},
		model.Segment{Text: "Level: ", Style: model.StyleLabel},
		model.Segment{Text: r.Level + "\n", Style: model.StyleOf(r.Tag())},
		model.Segment{Text: "Message: ", Style: model.StyleLabel},
		model.Segment{Text: r.Message + "\n", Style: model.StylePlain},
	)
	for _, f := range r.Extra {
		segs = append(segs,
			model.Segment{Text: "  " + f.Key + ": ", Style: model.StyleLabel},
			model.Segment{Text: prettyValue(f.Value) + "\n", Style: model.StylePlain},
		)
	}
	return segs
}

// prettyValue indents v by four spaces in file key order and shows string
// escapes such as \u00e9 or \/ as the characters they stand for.
func prettyValue(v json.RawMessage) string {
	var out bytes.Buffer
	if err := json.Indent(&out, v, "", "    "); err != nil {
		return string(v)
	}
	return string(decodeStrings(out.Bytes()))
}

// decodeStrings re-encodes every escaped string literal of valid JSON without
// ASCII or HTML escaping.
func decodeStrings(b []byte) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '"' {
			out = append(out, b[i])
			continue
		}
		j := i + 1
		for j < len(b) && b[j] != '"' {
			if b[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(b) {
			return append(out, b[i:]...)
		}
		lit := b[i : j+1]
		i = j
		var s string
		if bytes.IndexByte(lit, '\\') < 0 || json.Unmarshal(lit, &s) != nil {
			out = append(out, lit...)
			continue
		}
		buf.Reset()
		if err := enc.Encode(s); err != nil {
			out = append(out, lit...)
			continue
		}
		out = append(out, bytes.TrimSuffix(buf.Bytes(), []byte("\n"))...)
	}
	return out
}

func object(data []byte, path string, key string) ([]byte, error) {
	v, err := optionalObject(data, path, key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &SchemaError{Path: path, Missing: true}
	}
	return v, nil
}

// optionalObject returns nil, nil when the key is absent.
func optionalObject(data []byte, path string, key string) ([]byte, error) {
	v, dt, _, err := jsonparser.Get(data, key)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, nil
	}
	if err != nil {
		return nil, &SchemaError{Path: path}
	}
	if dt != jsonparser.Object {
		return nil, &SchemaError{Path: path}
	}
	return v, nil
}

func stringAt(data []byte, path string, key string) (string, error) {
	v, dt, _, err := jsonparser.Get(data, key)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return "", &SchemaError{Path: path, Missing: true}
	}
	if err != nil || dt != jsonparser.String {
		return "", &SchemaError{Path: path}
	}
	s, err := jsonparser.ParseString(v)
	if err != nil {
		return "", &SchemaError{Path: path}
	}
	return s, nil
}

func extraFields(record []byte) ([]model.Field, error) {
	obj, err := optionalObject(record, "record.extra", "extra")
	if err != nil || obj == nil {
		return nil, err
	}
	var fields []model.Field
	err = jsonparser.ObjectEach(obj, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		k, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		raw := value
		if dt == jsonparser.String {
			raw = make([]byte, 0, len(value)+2)
			raw = append(raw, '"')
			raw = append(raw, value...)
			raw = append(raw, '"')
		}
		fields = append(fields, model.Field{Key: k, Value: append(json.RawMessage(nil), raw...)})
		return nil
	})
	if err != nil {
		return nil, &SchemaError{Path: "record.extra"}
	}
	return fields, nil
}
