package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runPass(p *Pass) (visited []int, progress []int, doneCount int) {
	for i := 0; i < 10000; i++ {
		st := p.Step(func(lo, hi int) {
			for j := lo; j < hi; j++ {
				visited = append(visited, j)
			}
		})
		if st.Reported {
			progress = append(progress, st.Progress)
		}
		if st.Done {
			doneCount++
		}
		if st.Finished() {
			break
		}
	}
	return
}

func TestPassVisitsEveryItemOnceInOrder(t *testing.T) {
	for _, tc := range []struct{ total, batch int }{
		{1, 10}, {10, 10}, {11, 10}, {95, 10}, {1000, 10}, {1999, 20}, {7, 3},
	} {
		var s Scheduler
		visited, progress, done := runPass(s.Start(tc.total, tc.batch))

		require.Len(t, visited, tc.total)
		for i, v := range visited {
			assert.Equal(t, i, v)
		}
		assert.Equal(t, 1, done)
		require.NotEmpty(t, progress)
		assert.Equal(t, 100, progress[len(progress)-1])
		for i := 1; i < len(progress); i++ {
			assert.Greater(t, progress[i], progress[i-1], "total=%d batch=%d", tc.total, tc.batch)
		}
	}
}

func TestPassProgressValues(t *testing.T) {
	var s Scheduler
	_, progress, _ := runPass(s.Start(30, 10))
	assert.Equal(t, []int{33, 67, 100}, progress)
}

func TestPassEmptyCompletesImmediately(t *testing.T) {
	var s Scheduler
	p := s.Start(0, 10)
	called := false
	st := p.Step(func(lo, hi int) { called = true })
	assert.False(t, called)
	assert.True(t, st.Done)
	assert.True(t, st.Reported)
	assert.Equal(t, 100, st.Progress)

	st = p.Step(nil)
	assert.True(t, st.Exhausted)
	assert.False(t, st.Done)
}

func TestPassGoesStaleWhenSuperseded(t *testing.T) {
	var s Scheduler
	old := s.Start(100, 10)
	old.Step(nil)
	assert.Equal(t, 10, old.Cursor())

	fresh := s.Start(100, 10)
	assert.Greater(t, fresh.Generation(), old.Generation())

	called := false
	st := old.Step(func(lo, hi int) { called = true })
	assert.True(t, st.Stale)
	assert.False(t, called)
	assert.Equal(t, 10, old.Cursor())
	assert.Equal(t, 0, fresh.Cursor())

	s.Cancel()
	assert.True(t, fresh.Stale())
}

func TestPassStaleAfterVisitStartsNewPass(t *testing.T) {
	var s Scheduler
	p := s.Start(20, 10)
	st := p.Step(func(lo, hi int) { s.Start(5, 1) })
	assert.True(t, st.Stale)
	assert.False(t, st.Reported)
}

type countingStepper struct {
	steps, limit int
}

func (c *countingStepper) Step() Step {
	c.steps++
	return Step{Done: c.steps == c.limit}
}

func TestDrainYieldsBetweenSteps(t *testing.T) {
	c := &countingStepper{limit: 4}
	yields := 0
	require.NoError(t, Drain(context.Background(), c, func() { yields++ }))
	assert.Equal(t, 4, c.steps)
	assert.Equal(t, 3, yields)
}

func TestDrainStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &countingStepper{limit: 100}
	err := Drain(ctx, c, func() {
		if c.steps == 2 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, c.steps)
}

func TestDrainStalePass(t *testing.T) {
	var s Scheduler
	p := s.Start(10, 1)
	s.Cancel()
	err := Drain(context.Background(), stepperFunc(func() Step { return p.Step(nil) }), nil)
	assert.ErrorIs(t, err, ErrSuperseded)
}

type stepperFunc func() Step

func (f stepperFunc) Step() Step { return f() }
