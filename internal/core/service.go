package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultLoadTimeout bounds a single fetch of the dataset.
const DefaultLoadTimeout = 30 * time.Second

// Options configures a Service. Zero values use defaults.
type Options struct {
	LoadTimeout time.Duration
	Now         func() time.Time
}

// Service is the shared data-loading service.
//
// It caches the last good snapshot, collapses concurrent loads into a single
// fetch and tracks the loader state. All methods are safe for concurrent use.
type Service struct {
	source  Source
	timeout time.Duration
	now     func() time.Time
	group   singleflight.Group

	mu      sync.RWMutex
	state   LoadState
	snap    *Snapshot
	lastErr error
}

// NewService creates a Service over src. Nothing is loaded until the first
// call to Snapshot or Reload.
func NewService(src Source, opts Options) *Service {
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = DefaultLoadTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		source:  src,
		timeout: opts.LoadTimeout,
		now:     opts.Now,
		state:   StateIdle,
	}
}

// Snapshot returns the cached snapshot, loading it on first use.
// After a failed refresh the previous snapshot keeps being served.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	if snap != nil {
		return snap, nil
	}
	return s.load(ctx)
}

// Reload forces a fresh fetch, sharing it with any load already in flight.
func (s *Service) Reload(ctx context.Context) (*Snapshot, error) {
	return s.load(ctx)
}

// Record returns the first record with the given id.
func (s *Service) Record(ctx context.Context, id string) (Record, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := snap.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return rec, nil
}

// Status reports the current loader state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		State:  s.state,
		Source: s.source.Name(),
	}
	if s.snap != nil {
		st.Version = s.snap.Version.String()
		st.LoadedAt = s.snap.LoadedAt
		st.Rows = s.snap.Len()
		st.Flagged = s.snap.Stats.Flagged
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	return st
}

// load waits for the shared fetch or for ctx, whichever ends first.
// The fetch itself is detached from ctx so that one cancelled caller does
// not fail the others sharing it.
func (s *Service) load(ctx context.Context) (*Snapshot, error) {
	ch := s.group.DoChan("load", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.fetch(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (s *Service) fetch(ctx context.Context) (*Snapshot, error) {
	s.setState(StateLoading, nil)
	start := s.now()

	records, stats, err := s.source.Load(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		s.setState(StateFailed, err)
		slog.Error("dataset load failed",
			"source", s.source.Name(),
			"error", err,
			"duration_ms", s.now().Sub(start).Milliseconds(),
		)
		return nil, err
	}

	snap := &Snapshot{
		Records:  records,
		Version:  uuid.New(),
		LoadedAt: s.now(),
		Source:   s.source.Name(),
		Stats:    stats,
	}

	s.mu.Lock()
	s.snap = snap
	s.state = StateReady
	s.lastErr = nil
	s.mu.Unlock()

	slog.Info("dataset loaded",
		"source", snap.Source,
		"version", snap.Version.String(),
		"rows", stats.Rows,
		"flagged", stats.Flagged,
		"skipped_lines", stats.SkippedLines,
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	return snap, nil
}

func (s *Service) setState(state LoadState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.lastErr = err
}
