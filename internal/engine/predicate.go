package engine

import (
	"strings"

	"kasalog/internal/filter"
	"kasalog/internal/model"
)

// Predicate selects the records of a view. A nil Predicate matches everything.
type Predicate interface {
	Match(rec model.LogRecord) bool
	String() string
}

// LevelEquals matches on the exact level string, so unknown level names
// are filterable too.
type LevelEquals string

func (l LevelEquals) Match(rec model.LogRecord) bool { return rec.Level == string(l) }
func (l LevelEquals) String() string                 { return "level=" + string(l) }

// TextContains is a case-insensitive substring match over a record's
// rendered text.
type TextContains struct {
	term   string
	folded string
}

func NewTextContains(term string) TextContains {
	return TextContains{term: term, folded: strings.ToLower(term)}
}

func (t TextContains) Match(rec model.LogRecord) bool {
	return strings.Contains(strings.ToLower(rec.Text()), t.folded)
}
func (t TextContains) String() string { return "search=" + t.term }

// ExprMatches wraps a compiled filter expression.
type ExprMatches struct {
	expr *filter.Expr
}

func (e ExprMatches) Match(rec model.LogRecord) bool { return e.expr.Match(rec) }
func (e ExprMatches) String() string                 { return "expr=" + e.expr.String() }

func matches(p Predicate, rec model.LogRecord) bool {
	return p == nil || p.Match(rec)
}

func selectRecords(p Predicate, records []model.LogRecord) []model.LogRecord {
	if p == nil {
		return records[:len(records):len(records)]
	}
	var out []model.LogRecord
	for _, r := range records {
		if p.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
