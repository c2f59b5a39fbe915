package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"kasalog/internal/model"
	"kasalog/internal/util"
)

// CSVHeader is the first row written by CSV.
var CSVHeader = []string{"line", "timestamp", "level", "message", "extra"}

// CSV writes one row per record; extra is the compact JSON object in file order.
type CSV struct {
	w           *csv.Writer
	redact      bool
	wroteHeader bool
}

func NewCSV(w io.Writer, redact bool) *CSV {
	return &CSV{w: csv.NewWriter(w), redact: redact}
}

func (c *CSV) WriteRecords(records []model.LogRecord) error {
	if !c.wroteHeader {
		if err := c.w.Write(CSVHeader); err != nil {
			return err
		}
		c.wroteHeader = true
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Line),
			r.Timestamp,
			r.Level,
			c.clean(r.Message),
			c.clean(r.ExtraJSON()),
		}
		if err := c.w.Write(row); err != nil {
			return err
		}
	}
	return c.w.Error()
}

// Flush writes the header even when no record was written.
func (c *CSV) Flush() error {
	if !c.wroteHeader {
		if err := c.WriteRecords(nil); err != nil {
			return err
		}
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSV) clean(s string) string {
	if c.redact {
		return util.RedactPII(s)
	}
	return s
}

// NDJSON writes one JSON object per record.
type NDJSON struct {
	w      *bufio.Writer
	redact bool
}

func NewNDJSON(w io.Writer, redact bool) *NDJSON {
	return &NDJSON{w: bufio.NewWriter(w), redact: redact}
}

type ndjsonRecord struct {
	Line      int             `json:"line"`
	Timestamp string          `json:"timestamp"`
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Extra     json.RawMessage `json:"extra"`
}

func (n *NDJSON) WriteRecords(records []model.LogRecord) error {
	for _, r := range records {
		out := ndjsonRecord{
			Line:      r.Line,
			Timestamp: r.Timestamp,
			Level:     r.Level,
			Message:   r.Message,
			Extra:     json.RawMessage(r.ExtraJSON()),
		}
		if n.redact {
			out.Message = util.RedactPII(out.Message)
			extra := util.RedactPII(string(out.Extra))
			if json.Valid([]byte(extra)) {
				out.Extra = json.RawMessage(extra)
			} else {
				// masking broke the JSON; keep it as a string
				out.Extra, _ = json.Marshal(extra)
			}
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		if _, err := n.w.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

func (n *NDJSON) Flush() error { return n.w.Flush() }
