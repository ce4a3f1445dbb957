package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitLoad(t *testing.T, ds *mockDatasetService) {
	t.Helper()
	select {
	case <-ds.ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestReloader_Interval(t *testing.T) {
	ds := newMockDatasetService()
	r := NewReloader(ds, 10*time.Millisecond)

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(context.Background()) }()

	waitLoad(t, ds)
	waitLoad(t, ds)

	require.NoError(t, r.Stop())
	assert.NoError(t, <-errCh)
	assert.GreaterOrEqual(t, ds.loadCount(), 2)
}

func TestReloader_Trigger(t *testing.T) {
	ds := newMockDatasetService()
	r := NewReloader(ds, 0)

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(context.Background()) }()

	r.Trigger()
	waitLoad(t, ds)

	require.NoError(t, r.Stop())
	require.NoError(t, <-errCh)
	assert.Equal(t, 1, ds.loadCount())
}

func TestReloader_TriggerCoalesces(t *testing.T) {
	ds := newMockDatasetService()
	r := NewReloader(ds, 0)

	// Not started: only one trigger can be pending.
	r.Trigger()
	r.Trigger()
	r.Trigger()

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(context.Background()) }()
	waitLoad(t, ds)

	select {
	case <-ds.ch:
		t.Fatal("coalesced triggers caused a second reload")
	case <-time.After(30 * time.Millisecond):
	}

	require.NoError(t, r.Stop())
	require.NoError(t, <-errCh)
	assert.Equal(t, 1, ds.loadCount())
}

func TestReloader_Watcher(t *testing.T) {
	ds := newMockDatasetService()
	w := &mockWatcher{changes: make(chan struct{})}
	r := NewReloader(ds, 0)
	r.SetWatcher(w, "faq.csv")

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(context.Background()) }()

	w.changes <- struct{}{}
	waitLoad(t, ds)

	require.NoError(t, r.Stop())
	require.NoError(t, <-errCh)
}

func TestReloader_LoadErrorKeepsRunning(t *testing.T) {
	ds := newMockDatasetService()
	ds.err = errBoom
	r := NewReloader(ds, 10*time.Millisecond)

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(context.Background()) }()

	waitLoad(t, ds)
	waitLoad(t, ds)

	require.NoError(t, r.Stop())
	require.NoError(t, <-errCh)
}

func TestReloader_ContextCancel(t *testing.T) {
	ds := newMockDatasetService()
	r := NewReloader(ds, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
	assert.NoError(t, r.Stop())
}

func TestReloader_StopWhenNotRunning(t *testing.T) {
	r := NewReloader(newMockDatasetService(), 0)
	assert.NoError(t, r.Stop())
}

func TestReloader_StartTwice(t *testing.T) {
	ds := newMockDatasetService()
	r := NewReloader(ds, 0)

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.running
	}, time.Second, 5*time.Millisecond)

	assert.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Stop())
	require.NoError(t, <-errCh)
}
