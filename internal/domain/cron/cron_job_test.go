package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mushroomhunter/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type flusherFunc func(context.Context) error

func (f flusherFunc) FlushOnline(ctx context.Context) error {
	return f(ctx)
}

func TestCronJobManager_RunAndCancel(t *testing.T) {
	ctx := testutil.MockContext()

	var calls atomic.Int32
	job := NewFlushOfflineQueueCronJob(flusherFunc(func(context.Context) error {
		calls.Add(1)
		return nil
	}), 10*time.Millisecond)

	manager := NewCronJobManager()
	manager.Register(job)

	stopped := make(chan struct{})
	go func() {
		manager.Start(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	manager.Cancel(ctx)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}
}

func TestFlushOfflineQueueCronJob(t *testing.T) {
	job := NewFlushOfflineQueueCronJob(flusherFunc(func(context.Context) error {
		return errors.New("database is down")
	}), 0)

	require.True(t, job.RunNow())
	require.WithinDuration(t, time.Now().Add(time.Minute), job.Next(), time.Second)
	require.NotPanics(t, func() { job.Do(testutil.MockContext()) })
}
