package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mushroomhunter/backend/internal/middleware"
	"github.com/mushroomhunter/backend/pkg/prometheus"
	"github.com/mushroomhunter/backend/pkg/router"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadStorage()
	s.loadRepos()
	s.loadLeaderboard()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx)
	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.ApiServer.RateLimit)
	go limiter.Cleanup(ctx, 3*time.Minute)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.ApiServer.Host, cfg.ApiServer.Port),
		Handler: middleware.AllowCors(cfg.ApiServer.AllowOrigin, s.loadRouter(limiter).Handler()),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on %s", httpSrv.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter(limiter *middleware.RateLimiter) *router.Router {
	defaultRouter := router.New(s.ctx)
	defaultRouter.Before(limiter.Middleware())
	defaultRouter.Before(middleware.ImportUserID())
	defaultRouter.AddCloser(middleware.Logger())
	defaultRouter.AddCloser(middleware.Prometheus())
	defaultRouter.Handle("/metrics", prometheus.NewHandler())

	// These following APIs need an authenticated user.
	authRouter := defaultRouter.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		// Hunt API
		router.POST(authRouter, "/recordFind", s.huntDomain.RecordFind)
		router.POST(authRouter, "/dailyLogin", s.huntDomain.DailyLogin)
		router.POST(authRouter, "/shareSpot", s.huntDomain.ShareSpot)
		router.GET(authRouter, "/getProgress", s.huntDomain.GetProgress)

		// Quest API
		router.GET(authRouter, "/getActiveQuests", s.questDomain.GetActive)
		router.GET(authRouter, "/getCompletedQuests", s.questDomain.GetCompleted)

		// Achievement API
		router.GET(authRouter, "/getAchievements", s.achievementDomain.GetAchievements)

		// Leaderboard API
		router.GET(authRouter, "/getMyRank", s.statisticDomain.GetMyRank)

		// Offline queue API
		router.POST(authRouter, "/enqueueAction", s.offlineDomain.EnqueueAction)
		router.POST(authRouter, "/setConnectivity", s.offlineDomain.SetConnectivity)
		router.GET(authRouter, "/getQueue", s.offlineDomain.GetQueue)
	}

	// Quests are created by the content service for a given user.
	router.POST(defaultRouter, "/createQuest", s.questDomain.Create)

	// Public API.
	router.GET(defaultRouter, "/getLeaderBoard", s.statisticDomain.GetLeaderBoard)

	return defaultRouter
}
