package engine

import "context"

// Stepper is a resumable unit of work.
type Stepper interface {
	Step() Step
}

// Drain steps t until it finishes, calling yield between steps. It returns
// ErrSuperseded if a newer pass made t stale.
func Drain(ctx context.Context, t Stepper, yield func()) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		st := t.Step()
		if st.Stale {
			return ErrSuperseded
		}
		if st.Finished() {
			return nil
		}
		if yield != nil {
			yield()
		}
	}
}
