package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RepositoryTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = testutil.MockContext()
}

func (s *RepositoryTestSuite) TestUser() {
	t := s.T()
	userRepo := NewUserRepository()

	require.NoError(t, userRepo.Upsert(s.ctx, &entity.User{ID: "user1", Username: "alice", AvatarURL: "a.png"}))
	require.NoError(t, userRepo.Upsert(s.ctx, &entity.User{ID: "user1", Username: "alicia", AvatarURL: "b.png"}))
	require.NoError(t, userRepo.Upsert(s.ctx, &entity.User{ID: "user2", Username: "bob"}))

	user, err := userRepo.GetByID(s.ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, "alicia", user.Username)
	require.Equal(t, "b.png", user.AvatarURL)

	// Zero fields are not updated.
	require.NoError(t, userRepo.UpdateByID(s.ctx, "user1", &entity.User{Username: "ali"}))
	user, err = userRepo.GetByID(s.ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, "ali", user.Username)
	require.Equal(t, "b.png", user.AvatarURL)

	users, err := userRepo.GetByIDs(s.ctx, []string{"user1", "user2", "user3"})
	require.NoError(t, err)
	require.Len(t, users, 2)

	_, err = userRepo.GetByID(s.ctx, "user3")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func (s *RepositoryTestSuite) TestProgression_OptimisticLock() {
	t := s.T()
	progressionRepo := NewProgressionRepository()

	require.NoError(t, progressionRepo.Create(s.ctx, &entity.Progression{UserID: "user1", Level: 1}))
	require.ErrorIs(t, progressionRepo.Create(s.ctx, &entity.Progression{UserID: "user1", Level: 1}),
		ErrVersionConflict)

	first, err := progressionRepo.Get(s.ctx, "user1")
	require.NoError(t, err)
	stale, err := progressionRepo.Get(s.ctx, "user1")
	require.NoError(t, err)

	first.TotalPoints = 10
	first.LastActiveDate = sql.NullTime{Valid: true, Time: time.Now()}
	require.NoError(t, progressionRepo.Update(s.ctx, first))
	require.Equal(t, 1, first.Version)

	stale.TotalPoints = 20
	require.ErrorIs(t, progressionRepo.Update(s.ctx, stale), ErrVersionConflict)

	saved, err := progressionRepo.Get(s.ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, 10, saved.TotalPoints)
	require.Equal(t, 1, saved.Version)
	require.True(t, saved.LastActiveDate.Valid)
}

func (s *RepositoryTestSuite) TestUnlockedAchievement() {
	t := s.T()
	achievementRepo := NewUnlockedAchievementRepository()
	now := time.Now()

	require.NoError(t, achievementRepo.Create(s.ctx))
	require.NoError(t, achievementRepo.Create(s.ctx,
		&entity.UnlockedAchievement{UserID: "user1", Code: "first_find", UnlockedAt: now},
		&entity.UnlockedAchievement{UserID: "user1", Code: "rare_hunter", UnlockedAt: now.Add(time.Second)},
	))
	require.NoError(t, achievementRepo.Create(s.ctx,
		&entity.UnlockedAchievement{UserID: "user1", Code: "first_find", UnlockedAt: now.Add(time.Hour)},
	))

	unlocked, err := achievementRepo.GetByUserID(s.ctx, "user1")
	require.NoError(t, err)
	require.Len(t, unlocked, 2)
	require.Equal(t, "first_find", unlocked[0].Code)
	require.Equal(t, "rare_hunter", unlocked[1].Code)
}

func (s *RepositoryTestSuite) TestFind() {
	t := s.T()
	findRepo := NewFindRepository()
	day := time.Date(2024, 9, 14, 0, 0, 0, 0, time.UTC)

	finds := []*entity.Find{
		{Base: entity.Base{ID: "f1"}, UserID: "user1", MushroomID: "morel", Points: 30, Zone: "north", FoundAt: day.Add(8 * time.Hour)},
		{Base: entity.Base{ID: "f2"}, UserID: "user1", MushroomID: "morel", Points: 15, Zone: "south", FoundAt: day.Add(20 * time.Hour)},
		{Base: entity.Base{ID: "f3"}, UserID: "user1", MushroomID: "porcini", Points: 95, FoundAt: day.Add(30 * time.Hour)},
		{Base: entity.Base{ID: "f4"}, UserID: "user2", MushroomID: "morel", Points: 700, FoundAt: day.Add(9 * time.Hour)},
	}
	for _, f := range finds {
		require.NoError(t, findRepo.Create(s.ctx, f))
	}

	count, err := findRepo.Count(s.ctx, FindFilter{UserID: "user1", StartTime: day, EndTime: day.AddDate(0, 0, 1)})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	count, err = findRepo.Count(s.ctx, FindFilter{UserID: "user1", Zone: "north"})
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	species, err := findRepo.CountDistinctSpecies(s.ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(2), species)

	statistics, err := findRepo.Statistic(s.ctx, FindFilter{StartTime: day, EndTime: day.AddDate(0, 0, 1)})
	require.NoError(t, err)
	require.ElementsMatch(t, []entity.UserStatistic{
		{UserID: "user1", Points: 45, Finds: 2},
		{UserID: "user2", Points: 700, Finds: 1},
	}, statistics)
}

func (s *RepositoryTestSuite) TestQuest() {
	t := s.T()
	questRepo := NewQuestRepository()
	now := time.Now()

	active := &entity.Quest{
		Base:         entity.Base{ID: "q1"},
		UserID:       "user1",
		Type:         entity.QuestDaily,
		Requirements: entity.Array[entity.Requirement]{{Type: entity.RequirementFindMushroom, Target: 2}},
		ExpiresAt:    now.Add(time.Hour),
	}
	expired := &entity.Quest{
		Base:      entity.Base{ID: "q2"},
		UserID:    "user1",
		Type:      entity.QuestDaily,
		ExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, questRepo.Create(s.ctx, active))
	require.NoError(t, questRepo.Create(s.ctx, expired))

	quests, err := questRepo.GetActive(s.ctx, "user1", now)
	require.NoError(t, err)
	require.Len(t, quests, 1)
	require.Equal(t, "q1", quests[0].ID)

	quest := &quests[0]
	quest.Requirements[0].Current = 2
	quest.CompletedAt = sql.NullTime{Valid: true, Time: now}
	require.NoError(t, questRepo.UpdateProgress(s.ctx, quest))

	quests, err = questRepo.GetActive(s.ctx, "user1", now)
	require.NoError(t, err)
	require.Empty(t, quests)

	completed, err := questRepo.GetCompleted(s.ctx, "user1", 0, 10)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, 2, completed[0].Requirements[0].Current)
}

func (s *RepositoryTestSuite) TestQueuedAction() {
	t := s.T()
	actionRepo := NewQueuedActionRepository()

	for _, id := range []int64{3, 1, 2} {
		require.NoError(t, actionRepo.Create(s.ctx, &entity.QueuedAction{
			SnowFlakeBase: entity.SnowFlakeBase{ID: id},
			UserID:        "user1",
			Type:          entity.ActionCreateSpot,
			Data:          entity.Map{"mushroom_id": "morel"},
		}))
	}
	require.NoError(t, actionRepo.Create(s.ctx, &entity.QueuedAction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 4},
		UserID:        "user2",
		Type:          entity.ActionUpdateProfile,
	}))

	actions, err := actionRepo.GetByUserID(s.ctx, "user1")
	require.NoError(t, err)
	require.Len(t, actions, 3)
	require.Equal(t, []int64{1, 2, 3}, []int64{actions[0].ID, actions[1].ID, actions[2].ID})
	require.Equal(t, "morel", actions[0].Data["mushroom_id"])

	userIDs, err := actionRepo.GetPendingUserIDs(s.ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"user1", "user2"}, userIDs)

	require.NoError(t, actionRepo.UpdateRetry(s.ctx, 1, 1, "timeout"))
	require.NoError(t, actionRepo.Delete(s.ctx, 2, 3))

	actions, err = actionRepo.GetByUserID(s.ctx, "user1")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	require.Equal(t, 1, actions[0].RetryCount)
	require.Equal(t, "timeout", actions[0].LastError)
}

func (s *RepositoryTestSuite) TestConnectivity() {
	t := s.T()
	connectivityRepo := NewConnectivityRepository()

	_, err := connectivityRepo.Get(s.ctx, "user1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, connectivityRepo.Upsert(s.ctx, &entity.Connectivity{UserID: "user1", Online: true}))
	require.NoError(t, connectivityRepo.Upsert(s.ctx, &entity.Connectivity{UserID: "user1", Online: false}))

	c, err := connectivityRepo.Get(s.ctx, "user1")
	require.NoError(t, err)
	require.False(t, c.Online)
}
