package domain

import (
	"context"
	"time"

	"github.com/mushroomhunter/backend/internal/domain/achievement"
	"github.com/mushroomhunter/backend/internal/domain/leaderboard"
	"github.com/mushroomhunter/backend/internal/domain/progression"
	"github.com/mushroomhunter/backend/internal/domain/scoring"
	"github.com/mushroomhunter/backend/internal/model"
	"github.com/mushroomhunter/backend/internal/repository"
	"github.com/mushroomhunter/backend/pkg/testutil"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

type testSuite struct {
	userRepo         repository.UserRepository
	progressionRepo  repository.ProgressionRepository
	achievementRepo  repository.UnlockedAchievementRepository
	questRepo        repository.QuestRepository
	findRepo         repository.FindRepository
	actionRepo       repository.QueuedActionRepository
	connectivityRepo repository.ConnectivityRepository

	publisher    *testutil.MockPublisher
	redisClient  *testutil.MockRedisClient
	leaderboard  leaderboard.Leaderboard
	achievements *achievement.Manager

	hunt        *huntDomain
	quest       *questDomain
	achievement *achievementDomain
	statistic   *statisticDomain
}

func newTestSuite(ctx context.Context) *testSuite {
	cfg := xcontext.Configs(ctx)

	s := &testSuite{
		userRepo:         repository.NewUserRepository(),
		progressionRepo:  repository.NewProgressionRepository(),
		achievementRepo:  repository.NewUnlockedAchievementRepository(),
		questRepo:        repository.NewQuestRepository(),
		findRepo:         repository.NewFindRepository(),
		actionRepo:       repository.NewQueuedActionRepository(),
		connectivityRepo: repository.NewConnectivityRepository(),
		publisher:        &testutil.MockPublisher{},
		redisClient:      &testutil.MockRedisClient{},
		achievements:     achievement.NewManager(achievement.DefaultCatalog(cfg.Progression)...),
	}

	s.leaderboard = leaderboard.New(s.findRepo, s.redisClient)
	s.hunt = NewHuntDomain(
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
	s.hunt.clock = eveningToday
	s.quest = NewQuestDomain(s.questRepo, s.achievements)
	s.achievement = NewAchievementDomain(s.achievementRepo, s.achievements)
	s.statistic = NewStatisticDomain(s.userRepo, s.progressionRepo, s.leaderboard)

	return s
}

// noonToday keeps finds of a test on the same calendar day and away from the
// early bird and night owl hours.
func noonToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
}

func eventKinds(events []model.Event) []string {
	kinds := []string{}
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}

	return kinds
}

// eveningToday is the clock of the hunt domain in tests, so that finds at
// noonToday are never in the future.
func eveningToday() time.Time {
	now := time.Now()
	evening := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location())
	if now.Before(evening) {
		return evening
	}

	return now
}
