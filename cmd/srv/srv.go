package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mushroomhunter/backend/config"
	"github.com/mushroomhunter/backend/internal/domain"
	"github.com/mushroomhunter/backend/internal/domain/achievement"
	"github.com/mushroomhunter/backend/internal/domain/leaderboard"
	"github.com/mushroomhunter/backend/internal/domain/offlinequeue"
	"github.com/mushroomhunter/backend/internal/domain/progression"
	"github.com/mushroomhunter/backend/internal/domain/scoring"
	"github.com/mushroomhunter/backend/internal/repository"
	"github.com/mushroomhunter/backend/migration"
	"github.com/mushroomhunter/backend/pkg/idutil"
	"github.com/mushroomhunter/backend/pkg/kafka"
	"github.com/mushroomhunter/backend/pkg/logger"
	"github.com/mushroomhunter/backend/pkg/notification"
	"github.com/mushroomhunter/backend/pkg/pubsub"
	"github.com/mushroomhunter/backend/pkg/storage"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"github.com/mushroomhunter/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	ctx context.Context
	app *cli.App

	redisClient xredis.Client
	publisher   pubsub.Publisher
	storage     storage.Storage

	userRepo         repository.UserRepository
	progressionRepo  repository.ProgressionRepository
	achievementRepo  repository.UnlockedAchievementRepository
	questRepo        repository.QuestRepository
	findRepo         repository.FindRepository
	actionRepo       repository.QueuedActionRepository
	connectivityRepo repository.ConnectivityRepository

	leaderboard  leaderboard.Leaderboard
	achievements *achievement.Manager

	huntDomain        domain.HuntDomain
	questDomain       domain.QuestDomain
	achievementDomain domain.AchievementDomain
	statisticDomain   domain.StatisticDomain
	offlineDomain     domain.OfflineDomain
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String(configFlag.Name))
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	logLevel := gormlogger.Silent
	switch cfg.LogLevel {
	case "error":
		logLevel = gormlogger.Error
	case "warn":
		logLevel = gormlogger.Warn
	case "info":
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}

func (s *srv) migrateDB() {
	if err := migration.AutoMigrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka

	var err error
	s.publisher, err = kafka.NewPublisher("mushroomhunter", cfg.Addrs)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadStorage() {
	var err error
	s.storage, err = storage.NewS3Storage(xcontext.Configs(s.ctx).Storage)
	if err != nil {
		panic(err)
	}
}

func (s *srv) newNotifier() notification.Notifier {
	cfg := xcontext.Configs(s.ctx).Notification
	if cfg.Provider != "fcm" {
		xcontext.Logger(s.ctx).Warnf("Notification provider is %q, notifications are only logged", cfg.Provider)
		return notification.NewLogNotifier()
	}

	notifier, err := notification.NewFCMNotifier(s.ctx, notification.FCMConfigs{
		CredentialsFile: cfg.FCMCredentialsFile,
		CredentialsJSON: cfg.FCMCredentialsJSON,
		TopicPrefix:     cfg.TopicPrefix,
	})
	if err != nil {
		panic(err)
	}

	return notifier
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.progressionRepo = repository.NewProgressionRepository()
	s.achievementRepo = repository.NewUnlockedAchievementRepository()
	s.questRepo = repository.NewQuestRepository()
	s.findRepo = repository.NewFindRepository()
	s.actionRepo = repository.NewQueuedActionRepository()
	s.connectivityRepo = repository.NewConnectivityRepository()
}

func (s *srv) loadLeaderboard() {
	s.leaderboard = leaderboard.New(s.findRepo, s.redisClient)
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	s.achievements = achievement.NewManager(achievement.DefaultCatalog(cfg.Progression)...)

	s.huntDomain = domain.NewHuntDomain(
		s.progressionRepo,
		s.achievementRepo,
		s.questRepo,
		s.findRepo,
		s.leaderboard,
		s.achievements,
		s.publisher,
		progression.NewLedger(cfg.Progression),
		scoring.NewModel(cfg.Progression.Scoring),
	)
	s.questDomain = domain.NewQuestDomain(s.questRepo, s.achievements)
	s.achievementDomain = domain.NewAchievementDomain(s.achievementRepo, s.achievements)
	s.statisticDomain = domain.NewStatisticDomain(s.userRepo, s.progressionRepo, s.leaderboard)

	idGenerator, err := idutil.NewGenerator(cfg.ApiServer.NodeID)
	if err != nil {
		panic(fmt.Errorf("cannot create id generator: %w", err))
	}

	processor := offlinequeue.NewProcessor(cfg.OfflineQueue, s.actionRepo, s.publisher, cfg.Kafka.EventTopic)
	s.offlineDomain = domain.NewOfflineDomain(
		s.actionRepo,
		s.connectivityRepo,
		s.userRepo,
		processor,
		s.huntDomain,
		s.storage,
		idGenerator,
	)
}
