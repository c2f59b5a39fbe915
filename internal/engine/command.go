package engine

import (
	"context"
	"fmt"
)

// Command is everything a front end can ask of a session.
type Command interface {
	command()
}

type (
	OpenFile      struct{ Path string }
	Reset         struct{}
	FilterByLevel struct{ Level string }
	Search        struct{ Term string }
	FilterByExpr  struct{ Expr string }
)

func (OpenFile) command()      {}
func (Reset) command()         {}
func (FilterByLevel) command() {}
func (Search) command()        {}
func (FilterByExpr) command()  {}

// Outcome is the work a command left for the driver. Both fields are nil for
// a synchronous search.
type Outcome struct {
	Load *LoadJob
	Pass *RenderPass
}

// Dispatch runs cmd on the session. It must be called from the control thread.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (Outcome, error) {
	s.log.Debugf("dispatch %T %+v", cmd, cmd)
	switch c := cmd.(type) {
	case OpenFile:
		return Outcome{Load: s.Open(ctx, c.Path)}, nil
	case Reset:
		p, err := s.Reset()
		return Outcome{Pass: p}, err
	case FilterByLevel:
		p, err := s.ApplyLevelFilter(c.Level)
		return Outcome{Pass: p}, err
	case Search:
		_, err := s.Search(c.Term)
		return Outcome{}, err
	case FilterByExpr:
		p, err := s.ApplyExprFilter(c.Expr)
		return Outcome{Pass: p}, err
	default:
		return Outcome{}, fmt.Errorf("unknown command %T", cmd)
	}
}
