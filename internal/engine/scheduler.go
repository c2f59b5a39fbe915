package engine

import "math"

const (
	DefaultFilterBatch = 10
	DefaultRenderBatch = 20
)

// Scheduler hands out resumable passes. Starting a pass bumps the generation,
// which turns every earlier pass stale.
type Scheduler struct {
	gen uint64
}

// Generation is the id of the pass currently allowed to make progress.
func (s *Scheduler) Generation() uint64 { return s.gen }

// Cancel makes any in-flight pass stale without starting a new one.
func (s *Scheduler) Cancel() { s.gen++ }

// Start begins a pass over total items, batch items per step.
func (s *Scheduler) Start(total, batch int) *Pass {
	if batch <= 0 {
		batch = 1
	}
	if total < 0 {
		total = 0
	}
	s.gen++
	return &Pass{sched: s, gen: s.gen, total: total, batch: batch, last: -1}
}

// Pass is one walk over [0, total). It holds its own cursor so a driver can
// resume it from any event loop tick.
type Pass struct {
	sched  *Scheduler
	gen    uint64
	cursor int
	total  int
	batch  int
	last   int
	done   bool
}

// Step is what one call to Pass.Step observed.
type Step struct {
	// Progress is only meaningful when Reported is set.
	Progress int
	Reported bool
	// Done is set exactly once, on the step that reached the end.
	Done  bool
	Stale bool
	// Exhausted is set when stepping a pass that already completed.
	Exhausted bool
}

// Finished tells a driver to stop scheduling continuations.
func (s Step) Finished() bool { return s.Done || s.Stale || s.Exhausted }

func (p *Pass) Generation() uint64 { return p.gen }
func (p *Pass) Cursor() int        { return p.cursor }
func (p *Pass) Total() int         { return p.total }

// Stale reports whether a newer pass has been started since this one.
func (p *Pass) Stale() bool { return p.gen != p.sched.gen }

// Complete reports whether the cursor reached the end.
func (p *Pass) Complete() bool { return p.done }

// Step visits the next batch [lo, hi) and advances the cursor. A stale or
// already completed pass visits nothing. Progress is reported only when it
// grows; the final batch always reports 100.
func (p *Pass) Step(visit func(lo, hi int)) Step {
	if p.Stale() {
		return Step{Stale: true}
	}
	if p.done {
		return Step{Exhausted: true}
	}
	lo := p.cursor
	hi := lo + p.batch
	if hi > p.total {
		hi = p.total
	}
	if hi > lo && visit != nil {
		visit(lo, hi)
		// visit may have started another pass.
		if p.Stale() {
			return Step{Stale: true}
		}
	}
	p.cursor = hi

	pct := 100
	if p.total > 0 {
		pct = int(math.Round(float64(hi) / float64(p.total) * 100))
	}
	st := Step{}
	if pct > 99 {
		// 100 belongs to the final batch.
		pct = 99
	}
	if hi >= p.total {
		pct = 100
		p.done = true
		st.Done = true
	}
	if pct > p.last {
		p.last = pct
		st.Progress = pct
		st.Reported = true
	}
	return st
}
