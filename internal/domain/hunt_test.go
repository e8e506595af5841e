package domain

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/mushroomhunter/backend/internal/domain/event"
	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/internal/model"
	"github.com/mushroomhunter/backend/internal/repository"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/pubsub"
	"github.com/mushroomhunter/backend/pkg/testutil"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestHuntDomain_RecordFind_FirstFind(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	resp, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "chanterelle",
		Rarity:     "common",
		FoundAt:    noonToday(),
	})
	require.NoError(t, err)

	// 15 common base points doubled by the first find of the day, plus the
	// first find achievement.
	require.Equal(t, 30, resp.Points)
	require.Equal(t, 40, resp.Progression.TotalPoints)
	require.Equal(t, 40, resp.Progression.Experience)
	require.Equal(t, 1, resp.Progression.Level)
	require.Equal(t, 1, resp.Progression.DailyStreak)
	require.Equal(t, 1, resp.Progression.MushroomsFound)
	require.Equal(t, 0, resp.Progression.RareFinds)
	require.Equal(t, []string{
		string(event.StreakUpdated),
		string(event.PointsAwarded),
		string(event.AchievementUnlocked),
		string(event.PointsAwarded),
	}, eventKinds(resp.Events))

	find, err := suite.findRepo.GetByID(ctx, resp.FindID)
	require.NoError(t, err)
	require.True(t, find.IsFirstOfDay)
	require.Equal(t, 30, find.Points)

	progress, err := suite.hunt.GetProgress(ctx, &model.GetProgressRequest{})
	require.NoError(t, err)
	require.Equal(t, resp.Progression, progress.Progression)
	require.Equal(t, []string{"first_find"}, progress.Achievements)

	packs := suite.publisher.Packs()
	require.Len(t, packs, 4)
	e, err := event.Parse(packs[2])
	require.NoError(t, err)
	require.Equal(t, event.AchievementUnlocked, e.Kind)
	require.Equal(t, "user1", e.UserID)
	require.Equal(t, "user1", string(packs[2].Key))
}

func TestHuntDomain_RecordFind_LevelUp(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	_, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "chanterelle",
		Rarity:     "common",
		FoundAt:    noonToday(),
	})
	require.NoError(t, err)

	resp, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "morel",
		Rarity:     "rare",
		Zone:       "north",
		FoundAt:    noonToday().Add(time.Hour),
	})
	require.NoError(t, err)

	// Not the first find of the day, but the first one in the zone.
	require.Equal(t, 143, resp.Points)
	// 40 + 143 + 100 for the rare hunter achievement, crossing the thresholds
	// 100 and 150.
	require.Equal(t, 283, resp.Progression.TotalPoints)
	require.Equal(t, 3, resp.Progression.Level)
	require.Equal(t, 33, resp.Progression.Experience)
	require.Equal(t, 225, resp.Progression.ExperienceToNextLevel)
	require.Equal(t, 1, resp.Progression.RareFinds)
	require.Contains(t, eventKinds(resp.Events), string(event.LevelUp))
	require.NotContains(t, eventKinds(resp.Events), string(event.StreakUpdated))

	progress, err := suite.hunt.GetProgress(ctx, &model.GetProgressRequest{})
	require.NoError(t, err)
	require.Equal(t, []string{"first_find", "rare_hunter"}, progress.Achievements)
}

func TestHuntDomain_RecordFind_Multipliers(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	resp, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID:   "amanita",
		Rarity:       "uncommon",
		Zone:         "south",
		PerfectPhoto: true,
		GroupHunt:    true,
		Weather:      "rainy",
		FoundAt:      noonToday(),
	})
	require.NoError(t, err)

	// 45 * 2 * 1.5 * 1.3 * 1.2 * 1.5 = 315.9
	require.Equal(t, 316, resp.Points)
}

func TestHuntDomain_RecordFind_UnknownRarity(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	resp, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "unknown",
		Rarity:     "mythic",
		FoundAt:    noonToday(),
	})
	require.NoError(t, err)
	require.Equal(t, 20, resp.Points)
	require.Equal(t, 0, resp.Progression.RareFinds)
}

func TestHuntDomain_RecordFind_Unauthenticated(t *testing.T) {
	ctx := testutil.MockContext()
	suite := newTestSuite(ctx)

	_, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{MushroomID: "morel"})
	require.True(t, errorx.Is(err, errorx.Unauthenticated))
}

func TestHuntDomain_RecordFind_CompletesQuest(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	quest, err := suite.quest.Create(ctx, &model.CreateQuestRequest{
		UserID:       "user1",
		Title:        "Two mushrooms",
		Type:         "daily",
		Requirements: []model.Requirement{{Type: "find_mushroom", Target: 2}},
		RewardPoints: 50,
		ExpiresAt:    time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "chanterelle",
		Rarity:     "common",
		FoundAt:    noonToday(),
	})
	require.NoError(t, err)

	resp, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "chanterelle",
		Rarity:     "common",
		FoundAt:    noonToday().Add(time.Minute),
	})
	require.NoError(t, err)

	require.Contains(t, eventKinds(resp.Events), string(event.QuestCompleted))
	// 40 + 15 + 50
	require.Equal(t, 105, resp.Progression.TotalPoints)
	require.Equal(t, 2, resp.Progression.Level)

	completed, err := suite.quest.GetCompleted(ctx, &model.GetCompletedQuestsRequest{})
	require.NoError(t, err)
	require.Len(t, completed.Quests, 1)
	require.Equal(t, quest.ID, completed.Quests[0].ID)
	require.Equal(t, 2, completed.Quests[0].Requirements[0].Current)
	require.NotNil(t, completed.Quests[0].CompletedAt)

	active, err := suite.quest.GetActive(ctx, &model.GetActiveQuestsRequest{})
	require.NoError(t, err)
	require.Empty(t, active.Quests)
}

func TestHuntDomain_RecordFind_QuestRewardAchievement(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	_, err := suite.quest.Create(ctx, &model.CreateQuestRequest{
		UserID:            "user1",
		Title:             "Safety first",
		Type:              "seasonal",
		Requirements:      []model.Requirement{{Type: "find_mushroom", Target: 1}},
		RewardAchievement: "safety_first",
		ExpiresAt:         time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "chanterelle",
		Rarity:     "common",
		FoundAt:    noonToday(),
	})
	require.NoError(t, err)

	achievements, err := suite.achievement.GetAchievements(ctx, &model.GetAchievementsRequest{})
	require.NoError(t, err)

	unlocked := map[string]bool{}
	for _, a := range achievements.Achievements {
		unlocked[a.Code] = a.Unlocked
	}
	require.True(t, unlocked["first_find"])
	require.True(t, unlocked["safety_first"])
	require.False(t, unlocked["rare_hunter"])
}

func TestHuntDomain_DailyLogin(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	resp, err := suite.hunt.DailyLogin(ctx, &model.DailyLoginRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Progression.DailyStreak)
	require.Equal(t, []string{string(event.StreakUpdated)}, eventKinds(resp.Events))

	resp, err = suite.hunt.DailyLogin(ctx, &model.DailyLoginRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Progression.DailyStreak)
	require.Empty(t, resp.Events)
}

func TestHuntDomain_DailyLogin_ContinuesStreak(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	_, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "chanterelle",
		Rarity:     "common",
		FoundAt:    time.Now().AddDate(0, 0, -1),
	})
	require.NoError(t, err)

	resp, err := suite.hunt.DailyLogin(ctx, &model.DailyLoginRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Progression.DailyStreak)
	require.Equal(t, 2, resp.Progression.LongestStreak)
}

func TestHuntDomain_RecordFind_FutureFoundAt(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	evening := noonToday().Add(6 * time.Hour)
	suite.hunt.clock = func() time.Time { return evening }

	_, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "chanterelle",
		Rarity:     "common",
		FoundAt:    evening.AddDate(5, 0, 0),
	})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	// A small clock skew of the device is accepted.
	_, err = suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "chanterelle",
		Rarity:     "common",
		FoundAt:    evening.Add(time.Minute),
	})
	require.NoError(t, err)

	count, err := suite.findRepo.Count(ctx, repository.FindFilter{UserID: "user1"})
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// The rejected find did not move the last active date, so the streak
	// keeps counting on the next day.
	suite.hunt.clock = func() time.Time { return evening.AddDate(0, 0, 1) }
	resp, err := suite.hunt.DailyLogin(ctx, &model.DailyLoginRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Progression.DailyStreak)
}

func TestHuntDomain_ShareSpot(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	find, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "chanterelle",
		Rarity:     "common",
		FoundAt:    noonToday(),
	})
	require.NoError(t, err)

	_, err = suite.hunt.ShareSpot(ctx, &model.ShareSpotRequest{FindID: "unknown"})
	require.True(t, errorx.Is(err, errorx.NotFound))

	otherCtx := xcontext.WithRequestUserID(ctx, "user2")
	_, err = suite.hunt.ShareSpot(otherCtx, &model.ShareSpotRequest{FindID: find.FindID})
	require.True(t, errorx.Is(err, errorx.PermissionDenied))

	resp, err := suite.hunt.ShareSpot(ctx, &model.ShareSpotRequest{FindID: find.FindID})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Progression.SpotsShared)
	require.Equal(t, 40, resp.Progression.TotalPoints)
}

func TestHuntDomain_RecordFind_PublishFailure(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)
	suite.publisher.PublishFunc = func(context.Context, string, *pubsub.Pack) error {
		return errorx.New(errorx.Unavailable, "broker is down")
	}

	resp, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "chanterelle",
		Rarity:     "common",
		FoundAt:    noonToday(),
	})
	require.NoError(t, err)
	require.Equal(t, 40, resp.Progression.TotalPoints)
}

func TestHuntDomain_RecordFind_Concurrent(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
				MushroomID: "chanterelle",
				Rarity:     "common",
				FoundAt:    noonToday(),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	progress, err := suite.hunt.GetProgress(ctx, &model.GetProgressRequest{})
	require.NoError(t, err)
	require.Equal(t, 5, progress.Progression.MushroomsFound)
	// Only the first find of the day is doubled.
	require.Equal(t, 30+4*15+10, progress.Progression.TotalPoints)
}

func TestHuntDomain_Leaderboard(t *testing.T) {
	ctx := testutil.MockContext()
	suite := newTestSuite(ctx)

	require.NoError(t, suite.userRepo.Upsert(ctx, &entity.User{ID: "user1", Username: "alice"}))

	record := func(userID, rarity string) {
		_, err := suite.hunt.RecordFind(xcontext.WithRequestUserID(ctx, userID), &model.RecordFindRequest{
			MushroomID: "chanterelle",
			Rarity:     rarity,
			FoundAt:    noonToday(),
		})
		require.NoError(t, err)
	}

	record("user1", "common")
	record("user2", "rare")

	resp, err := suite.statistic.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{Period: "all_time"})
	require.NoError(t, err)
	require.Len(t, resp.LeaderBoard, 2)
	require.Equal(t, "user2", resp.LeaderBoard[0].User.ID)
	require.Equal(t, 190, resp.LeaderBoard[0].Points)
	// The ledger total also counts the first find and rare hunter rewards.
	require.Equal(t, 190+10+100, resp.LeaderBoard[0].TotalPoints)
	require.Equal(t, "user1", resp.LeaderBoard[1].User.ID)
	require.Equal(t, "alice", resp.LeaderBoard[1].User.Username)
	require.Equal(t, 1, resp.LeaderBoard[1].MushroomsFound)
	require.Equal(t, 30+10, resp.LeaderBoard[1].TotalPoints)

	// The board is cached now, new finds are added incrementally.
	record("user1", "legendary")

	rank, err := suite.statistic.GetMyRank(xcontext.WithRequestUserID(ctx, "user1"),
		&model.GetMyRankRequest{Period: "all_time"})
	require.NoError(t, err)
	require.Equal(t, uint64(1), rank.Rank)

	_, err = suite.statistic.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{Period: "all_time", Limit: 51})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = suite.statistic.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{Period: "yearly"})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}

func TestHuntDomain_RecordFind_Response(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	resp, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "chanterelle",
		Rarity:     "common",
		FoundAt:    noonToday(),
	})
	require.NoError(t, err)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	require.Contains(t, string(b), `"last_active_date":"`+noonToday().Format("2006-01-02")+`"`)
}
