package engine

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"kasalog/internal/filter"
	"kasalog/internal/ingest"
	"kasalog/internal/model"
	"kasalog/internal/parse"
	"kasalog/internal/util/logx"
)

// Consumer receives everything a session produces. Every call happens on the
// control thread.
type Consumer interface {
	OnIngestProgress(pct int)
	OnIngestComplete(records []model.LogRecord)
	OnIngestError(err error)
	// OnViewCleared is called when a new view replaces the displayed one.
	OnViewCleared()
	OnRenderBatch(records []model.LogRecord)
	OnRenderProgress(pct int)
	OnRenderComplete()
	OnNoSearchResults(term string)
}

// Options tunes a session. Zero values fall back to the defaults.
type Options struct {
	FilterBatch int
	RenderBatch int
	Reader      ingest.LineReader
	Parser      parse.Parser
}

// Session owns the loaded records, the active predicate and the display
// counters. It is not safe for concurrent use: drive it from one goroutine.
type Session struct {
	id       string
	log      *logx.Logger
	store    *model.Store
	sched    Scheduler
	pred     Predicate
	consumer Consumer
	reader   ingest.LineReader
	parser   parse.Parser
	batch    int
	render   int
	loadSeq  uint64
}

// NewSession returns an empty session that reports to c.
func NewSession(c Consumer, opt Options) *Session {
	if opt.FilterBatch <= 0 {
		opt.FilterBatch = DefaultFilterBatch
	}
	if opt.RenderBatch <= 0 {
		opt.RenderBatch = DefaultRenderBatch
	}
	if opt.Reader == nil {
		opt.Reader = ingest.FileReader{}
	}
	if opt.Parser == nil {
		opt.Parser = parse.NewParser()
	}
	id := uuid.NewString()
	return &Session{
		id:       id,
		log:      logx.With("session", id),
		store:    model.NewStore(),
		consumer: c,
		reader:   opt.Reader,
		parser:   opt.Parser,
		batch:    opt.FilterBatch,
		render:   opt.RenderBatch,
	}
}

// ID identifies the session in log lines.
func (s *Session) ID() string { return s.id }

// LevelCounts is a snapshot of the counters for the displayed view.
func (s *Session) LevelCounts() model.LevelCounts { return s.store.Counts() }

// Predicate is the active predicate, nil when the full set is shown.
func (s *Session) Predicate() Predicate { return s.pred }

// Records is every loaded record in file order. Do not modify.
func (s *Session) Records() []model.LogRecord { return s.store.Records() }

// Source is the path of the loaded file, empty before the first load.
func (s *Session) Source() string { return s.store.Source() }

// LoadJob is an ingestion started by Open.
type LoadJob struct {
	*ingest.Job
	seq uint64
}

// Open starts ingesting path in the background. Any earlier load still in
// flight is superseded: its results will be refused by Publish.
func (s *Session) Open(ctx context.Context, path string) *LoadJob {
	s.loadSeq++
	s.log.Infof("open %s (load %d)", path, s.loadSeq)
	return &LoadJob{Job: ingest.Start(ctx, s.reader, s.parser, path), seq: s.loadSeq}
}

// Current reports whether lj is the latest load.
func (s *Session) Current(lj *LoadJob) bool { return lj.seq == s.loadSeq }

// ReportProgress forwards ingestion progress of the current load.
func (s *Session) ReportProgress(lj *LoadJob, pct int) {
	if s.Current(lj) {
		s.consumer.OnIngestProgress(pct)
	}
}

// Publish installs the result of lj and starts the full render pass. A failed
// load leaves the store as it was.
func (s *Session) Publish(lj *LoadJob, res ingest.Result) (*RenderPass, error) {
	if !s.Current(lj) {
		s.log.Debugf("dropping superseded load of %s", lj.Path)
		return nil, ErrSuperseded
	}
	if res.Err != nil {
		s.log.Errorf("load %s: %v", lj.Path, res.Err)
		s.consumer.OnIngestError(res.Err)
		return nil, res.Err
	}
	s.store.Replace(lj.Path, res.Records)
	s.log.Infof("loaded %d records from %s", len(res.Records), lj.Path)
	s.consumer.OnIngestComplete(s.store.Records())
	s.pred = nil
	return s.startPass(s.render), nil
}

// Wait drives lj to completion on the calling goroutine and publishes it.
func (s *Session) Wait(ctx context.Context, lj *LoadJob) (*RenderPass, error) {
	for {
		select {
		case <-ctx.Done():
			lj.Cancel()
			return nil, ctx.Err()
		case pct, ok := <-lj.Progress:
			if !ok {
				return s.Publish(lj, <-lj.Done)
			}
			s.ReportProgress(lj, pct)
		}
	}
}

// ApplyLevelFilter shows only records whose level equals level. Known level
// names are matched case-insensitively, unknown ones exactly.
func (s *Session) ApplyLevelFilter(level string) (*RenderPass, error) {
	if s.store.Len() == 0 {
		return nil, ErrInvalidState
	}
	s.pred = LevelEquals(model.NormalizeLevel(level))
	s.log.Debugf("filter %s", s.pred)
	return s.startPass(s.batch), nil
}

// Reset shows every record again.
func (s *Session) Reset() (*RenderPass, error) {
	if s.store.Len() == 0 {
		return nil, ErrInvalidState
	}
	s.pred = nil
	s.log.Debugf("reset")
	return s.startPass(s.batch), nil
}

// ApplyExprFilter shows records matching a govaluate expression. A bad
// expression changes nothing.
func (s *Session) ApplyExprFilter(src string) (*RenderPass, error) {
	if s.store.Len() == 0 {
		return nil, ErrInvalidState
	}
	e, err := filter.Compile(src)
	if err != nil {
		return nil, err
	}
	s.pred = ExprMatches{expr: e}
	s.log.Debugf("filter %s", s.pred)
	return s.startPass(s.batch), nil
}

// Search renders every record containing term in one go. When nothing
// matches, the consumer is told and the view stays as it is, including a
// pass still in flight.
func (s *Session) Search(term string) ([]model.LogRecord, error) {
	if s.store.Len() == 0 {
		return nil, ErrInvalidState
	}
	if strings.TrimSpace(term) == "" {
		return nil, ErrEmptyTerm
	}
	pred := NewTextContains(term)
	found := selectRecords(pred, s.store.Records())
	if len(found) == 0 {
		s.log.Debugf("search %q: no results", term)
		s.consumer.OnNoSearchResults(term)
		return nil, ErrEmptyResult
	}
	s.sched.Cancel()
	s.pred = pred
	s.store.SetCounts(model.CountLevels(found))
	s.log.Debugf("search %q: %d results", term, len(found))
	s.consumer.OnViewCleared()
	s.consumer.OnRenderBatch(found)
	s.consumer.OnRenderProgress(100)
	s.consumer.OnRenderComplete()
	return found, nil
}

func (s *Session) startPass(batch int) *RenderPass {
	records := s.store.Records()
	s.store.ResetCounts()
	s.consumer.OnViewCleared()
	return &RenderPass{
		s:       s,
		pass:    s.sched.Start(len(records), batch),
		pred:    s.pred,
		records: records,
	}
}

// RenderPass emits the records of the active predicate in batches. Each Step
// is one continuation.
type RenderPass struct {
	s       *Session
	pass    *Pass
	pred    Predicate
	records []model.LogRecord
}

func (rp *RenderPass) Generation() uint64 { return rp.pass.Generation() }

// Step processes one batch, emitting matched records and counting them.
func (rp *RenderPass) Step() Step {
	c := rp.s.consumer
	st := rp.pass.Step(func(lo, hi int) {
		var matched []model.LogRecord
		if rp.pred == nil {
			matched = rp.records[lo:hi:hi]
		} else {
			for _, r := range rp.records[lo:hi] {
				if matches(rp.pred, r) {
					matched = append(matched, r)
				}
			}
		}
		rp.s.store.AddCounts(model.CountLevels(matched))
		if len(matched) > 0 {
			c.OnRenderBatch(matched)
		}
	})
	if st.Stale {
		return st
	}
	if st.Reported {
		c.OnRenderProgress(st.Progress)
	}
	if st.Done {
		rp.s.log.Debugf("pass %d done: %d shown", rp.pass.Generation(), rp.s.store.Counts().Total())
		c.OnRenderComplete()
	}
	return st
}
