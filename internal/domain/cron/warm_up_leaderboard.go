package cron

import (
	"context"
	"time"

	"github.com/mushroomhunter/backend/internal/domain/leaderboard"
	"github.com/mushroomhunter/backend/pkg/dateutil"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

// WarmUpLeaderboardCronJob rebuilds the cached boards of the new periods
// right after midnight.
type WarmUpLeaderboardCronJob struct {
	leaderboard leaderboard.Leaderboard
}

func NewWarmUpLeaderboardCronJob(lb leaderboard.Leaderboard) *WarmUpLeaderboardCronJob {
	return &WarmUpLeaderboardCronJob{leaderboard: lb}
}

func (job *WarmUpLeaderboardCronJob) Do(ctx context.Context) {
	for _, period := range leaderboard.AllPeriods(time.Now()) {
		if err := job.leaderboard.WarmUp(ctx, period); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot warm up leaderboard %s: %v", period.Period(), err)
		}
	}
}

func (job *WarmUpLeaderboardCronJob) RunNow() bool {
	return false
}

func (job *WarmUpLeaderboardCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}
