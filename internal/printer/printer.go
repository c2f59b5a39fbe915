package printer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"kasalog/internal/model"
	"kasalog/internal/util"
)

// Separator follows every record.
var Separator = "\n" + strings.Repeat("-", 80) + "\n"

// Text writes records as their styled segments.
type Text struct {
	w      *bufio.Writer
	redact bool
}

func NewText(w io.Writer, redact bool) *Text {
	return &Text{w: bufio.NewWriter(w), redact: redact}
}

func (t *Text) WriteRecords(records []model.LogRecord) error {
	for _, r := range records {
		for _, seg := range r.Segments {
			text := seg.Text
			if t.redact {
				text = util.RedactPII(text)
			}
			if _, err := styleColor(seg.Style).Fprint(t.w, text); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(t.w, Separator); err != nil {
			return err
		}
	}
	return nil
}

func (t *Text) Flush() error { return t.w.Flush() }

// Summary renders counts as "INFO 1,204  WARNING 3 ..." in tag order, with
// UNKNOWN only when non-zero.
func Summary(c model.LevelCounts) string {
	parts := make([]string, 0, len(model.AllTags)+1)
	for _, tag := range model.AllTags {
		n := c[tag]
		if tag == model.TagUnknown && n == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", tag, humanize.Comma(int64(n))))
	}
	parts = append(parts, fmt.Sprintf("total %s", humanize.Comma(int64(c.Total()))))
	return strings.Join(parts, "  ")
}
