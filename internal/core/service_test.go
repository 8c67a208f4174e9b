package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource counts loads and can block until released.
type stubSource struct {
	records []Record
	err     error
	gate    chan struct{}
	loads   atomic.Int32
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(ctx context.Context) ([]Record, LoadStats, error) {
	s.loads.Add(1)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, LoadStats{}, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, LoadStats{}, s.err
	}
	return s.records, LoadStats{Rows: len(s.records)}, nil
}

func fixture() []Record {
	return []Record{
		{FieldID: "1", FieldLegalName: "ACME"},
		{FieldID: "2", FieldLegalName: "BETA"},
		{FieldID: "2", FieldLegalName: "BETA DUPLICATE"},
	}
}

func TestService_SnapshotIsCached(t *testing.T) {
	src := &stubSource{records: fixture()}
	svc := NewService(src, Options{})

	assert.Equal(t, StateIdle, svc.Status().State)

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	second, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), src.loads.Load())

	st := svc.Status()
	assert.Equal(t, StateReady, st.State)
	assert.Equal(t, 3, st.Rows)
	assert.Equal(t, first.Version.String(), st.Version)
	assert.Equal(t, "stub", st.Source)
}

func TestService_ConcurrentLoadsAreDeduplicated(t *testing.T) {
	src := &stubSource{records: fixture(), gate: make(chan struct{})}
	svc := NewService(src, Options{})

	const callers = 8
	var wg sync.WaitGroup
	snaps := make([]*Snapshot, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := svc.Snapshot(context.Background())
			assert.NoError(t, err)
			snaps[i] = snap
		}()
	}

	require.Eventually(t, func() bool { return svc.Status().State == StateLoading }, time.Second, time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, int32(1), src.loads.Load())
	for _, snap := range snaps[1:] {
		assert.Same(t, snaps[0], snap)
	}
}

func TestService_CancelledCallerDoesNotAbortSharedLoad(t *testing.T) {
	src := &stubSource{records: fixture(), gate: make(chan struct{})}
	svc := NewService(src, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Snapshot(ctx)
		errCh <- err
	}()

	require.Eventually(t, func() bool { return src.loads.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	close(src.gate)
	require.Eventually(t, func() bool { return svc.Status().State == StateReady }, time.Second, time.Millisecond)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, int32(1), src.loads.Load())
}

func TestService_LoadTimeout(t *testing.T) {
	src := &stubSource{gate: make(chan struct{})}
	defer close(src.gate)
	svc := NewService(src, Options{LoadTimeout: 20 * time.Millisecond})

	_, err := svc.Snapshot(context.Background())

	require.ErrorIs(t, err, ErrSourceUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateFailed, svc.Status().State)
}

func TestService_FailureThenRecovery(t *testing.T) {
	src := &stubSource{err: ErrSourceUnavailable}
	svc := NewService(src, Options{})

	_, err := svc.Snapshot(context.Background())
	require.ErrorIs(t, err, ErrSourceUnavailable)

	st := svc.Status()
	assert.Equal(t, StateFailed, st.State)
	assert.Contains(t, st.Error, "source unavailable")
	assert.Zero(t, st.Rows)

	// No snapshot cached, so the next call retries.
	src.err = nil
	src.records = fixture()
	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, StateReady, svc.Status().State)
	assert.Empty(t, svc.Status().Error)
}

func TestService_FailedReloadKeepsPreviousSnapshot(t *testing.T) {
	src := &stubSource{records: fixture()}
	svc := NewService(src, Options{})

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	src.err = errors.New("source unavailable: disk on fire")
	_, err = svc.Reload(context.Background())
	require.Error(t, err)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, snap)
	assert.Equal(t, StateFailed, svc.Status().State)
	assert.Equal(t, 3, svc.Status().Rows)
}

func TestService_ReloadReplacesSnapshot(t *testing.T) {
	src := &stubSource{records: fixture()}
	svc := NewService(src, Options{})

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	src.records = fixture()[:1]
	second, err := svc.Reload(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Version, second.Version)
	assert.Equal(t, 1, second.Len())
	assert.Equal(t, 3, first.Len(), "old snapshot is not mutated")
}

func TestService_Record(t *testing.T) {
	svc := NewService(&stubSource{records: fixture()}, Options{})

	rec, err := svc.Record(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "BETA", rec.Get(FieldLegalName), "first match wins")

	_, err = svc.Record(context.Background(), "999")
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestSnapshot_FindNil(t *testing.T) {
	var snap *Snapshot
	_, ok := snap.Find("1")
	assert.False(t, ok)
	assert.Zero(t, snap.Len())
}

func TestService_RefreshScheduler(t *testing.T) {
	src := &stubSource{records: fixture()}
	svc := NewService(src, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartRefreshScheduler(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return src.loads.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestService_RefreshSchedulerDisabled(t *testing.T) {
	src := &stubSource{records: fixture()}
	svc := NewService(src, Options{})

	svc.StartRefreshScheduler(context.Background(), 0)

	assert.Equal(t, int32(1), src.loads.Load())
	assert.Equal(t, StateReady, svc.Status().State)
}
