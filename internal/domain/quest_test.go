package domain

import (
	"testing"
	"time"

	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/internal/model"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/testutil"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestQuestDomain_Create(t *testing.T) {
	valid := func() *model.CreateQuestRequest {
		return &model.CreateQuestRequest{
			UserID: "user1",
			Title:  "Rare week",
			Type:   "weekly",
			Requirements: []model.Requirement{
				{Type: "find_rarity", Target: 3, Metadata: map[string]any{"min_rarity": "rare"}},
			},
			RewardPoints: 100,
			ExpiresAt:    time.Now().Add(7 * 24 * time.Hour),
		}
	}

	testCases := []struct {
		name    string
		modify  func(*model.CreateQuestRequest)
		wantErr errorx.Code
	}{
		{
			name:   "happy case",
			modify: func(*model.CreateQuestRequest) {},
		},
		{
			name:    "invalid type",
			modify:  func(req *model.CreateQuestRequest) { req.Type = "yearly" },
			wantErr: errorx.BadRequest,
		},
		{
			name:    "already expired",
			modify:  func(req *model.CreateQuestRequest) { req.ExpiresAt = time.Now().Add(-time.Hour) },
			wantErr: errorx.BadRequest,
		},
		{
			name:    "unknown reward achievement",
			modify:  func(req *model.CreateQuestRequest) { req.RewardAchievement = "dragon_slayer" },
			wantErr: errorx.BadRequest,
		},
		{
			name:    "invalid requirement type",
			modify:  func(req *model.CreateQuestRequest) { req.Requirements[0].Type = "climb_tree" },
			wantErr: errorx.BadRequest,
		},
		{
			name: "invalid metadata",
			modify: func(req *model.CreateQuestRequest) {
				req.Requirements[0].Metadata = map[string]any{"min_rarity": map[string]any{"tier": 2}}
			},
			wantErr: errorx.BadRequest,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContextWithUserID("user1")
			suite := newTestSuite(ctx)

			req := valid()
			tt.modify(req)

			resp, err := suite.quest.Create(ctx, req)
			if tt.wantErr != 0 {
				require.True(t, errorx.Is(err, tt.wantErr), "got %v", err)
				return
			}

			require.NoError(t, err)

			active, err := suite.quest.GetActive(ctx, &model.GetActiveQuestsRequest{})
			require.NoError(t, err)
			require.Len(t, active.Quests, 1)
			require.Equal(t, resp.ID, active.Quests[0].ID)
			require.Equal(t, "find_rarity", active.Quests[0].Requirements[0].Type)
			require.Equal(t, 0, active.Quests[0].Requirements[0].Current)
		})
	}
}

func TestQuestDomain_GetCompleted_Limit(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	_, err := suite.quest.GetCompleted(ctx, &model.GetCompletedQuestsRequest{Limit: 101})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	resp, err := suite.quest.GetCompleted(ctx, &model.GetCompletedQuestsRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Quests)
}

func TestQuestDomain_ExpiredQuestNeverCompletes(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	suite := newTestSuite(ctx)

	quest, err := suite.quest.Create(ctx, &model.CreateQuestRequest{
		UserID:       "user1",
		Title:        "Soon over",
		Type:         "daily",
		Requirements: []model.Requirement{{Type: "find_mushroom", Target: 1}},
		RewardPoints: 500,
		ExpiresAt:    time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	err = xcontext.DB(ctx).Model(&entity.Quest{}).
		Where("id=?", quest.ID).
		Update("expires_at", time.Now().AddDate(0, 0, -1)).Error
	require.NoError(t, err)

	// The find is dated before the deadline but reported after it.
	resp, err := suite.hunt.RecordFind(ctx, &model.RecordFindRequest{
		MushroomID: "morel",
		Rarity:     "common",
		FoundAt:    noonToday().AddDate(0, 0, -2),
	})
	require.NoError(t, err)
	require.NotContains(t, eventKinds(resp.Events), "quest_completed")
	require.Equal(t, 40, resp.Progression.TotalPoints)
	require.Equal(t, 1, resp.Progression.Level)

	completed, err := suite.quest.GetCompleted(ctx, &model.GetCompletedQuestsRequest{})
	require.NoError(t, err)
	require.Empty(t, completed.Quests)

	stored, err := suite.questRepo.GetByID(ctx, quest.ID)
	require.NoError(t, err)
	require.Zero(t, stored.Requirements[0].Current)
}
