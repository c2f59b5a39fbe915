package filter

import (
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"

	"kasalog/internal/model"
)

// Expr is a compiled boolean expression over a record's fields.
//
// Parameters: level, message, timestamp, line, plus every key of extra.
// Functions: contains(s, sub) (case-insensitive), lower(s).
type Expr struct {
	src  string
	expr *govaluate.EvaluableExpression
}

// Compile parses src. An empty expression is an error.
func Compile(src string) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("compile expression: empty")
	}
	e := &Expr{src: src}
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(src, e.functions())
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", src, err)
	}
	e.expr = expr
	return e, nil
}

func (e *Expr) String() string { return e.src }

// Match reports whether rec satisfies the expression. Evaluation errors and
// non-boolean results are a non-match.
func (e *Expr) Match(rec model.LogRecord) bool {
	result, err := e.expr.Eval(params(rec))
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

type recordParams struct {
	rec   model.LogRecord
	extra map[string]any
}

func params(rec model.LogRecord) *recordParams { return &recordParams{rec: rec} }

// Get resolves a parameter name. Extra is decoded lazily.
func (p *recordParams) Get(name string) (any, error) {
	switch name {
	case "level":
		return p.rec.Level, nil
	case "message":
		return p.rec.Message, nil
	case "timestamp":
		return p.rec.Timestamp, nil
	case "line":
		return float64(p.rec.Line), nil
	}
	if p.extra == nil {
		p.extra = p.rec.ExtraMap()
	}
	if v, ok := p.extra[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no parameter %q", name)
}

func (e *Expr) functions() map[string]govaluate.ExpressionFunction {
	return map[string]govaluate.ExpressionFunction{
		"contains": func(args ...any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("contains: want 2 arguments, got %d", len(args))
			}
			return strings.Contains(strings.ToLower(toString(args[0])), strings.ToLower(toString(args[1]))), nil
		},
		"lower": func(args ...any) (any, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("lower: want 1 argument, got %d", len(args))
			}
			return strings.ToLower(toString(args[0])), nil
		},
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
