package cron

import (
	"context"
	"time"

	"github.com/mushroomhunter/backend/pkg/xcontext"
)

type OfflineFlusher interface {
	FlushOnline(context.Context) error
}

// FlushOfflineQueueCronJob retries the queues of online users whose previous
// passes left actions behind.
type FlushOfflineQueueCronJob struct {
	flusher  OfflineFlusher
	interval time.Duration
}

func NewFlushOfflineQueueCronJob(flusher OfflineFlusher, interval time.Duration) *FlushOfflineQueueCronJob {
	if interval <= 0 {
		interval = time.Minute
	}

	return &FlushOfflineQueueCronJob{flusher: flusher, interval: interval}
}

func (job *FlushOfflineQueueCronJob) Do(ctx context.Context) {
	if err := job.flusher.FlushOnline(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot flush offline queues: %v", err)
	}
}

func (job *FlushOfflineQueueCronJob) RunNow() bool {
	return true
}

func (job *FlushOfflineQueueCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
