package main

import (
	"os/signal"
	"syscall"

	"github.com/mushroomhunter/backend/internal/domain/cron"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadStorage()
	s.loadRepos()
	s.loadLeaderboard()
	s.loadDomains()

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewFlushOfflineQueueCronJob(
		s.offlineDomain, xcontext.Configs(s.ctx).OfflineQueue.FlushInterval.Duration))
	cronJobManager.Register(cron.NewWarmUpLeaderboardCronJob(s.leaderboard))

	go func() {
		<-ctx.Done()
		cronJobManager.Cancel(s.ctx)
	}()

	cronJobManager.Start(s.ctx)
	return nil
}
