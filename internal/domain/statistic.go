package domain

import (
	"context"

	"github.com/mushroomhunter/backend/internal/domain/leaderboard"
	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/internal/model"
	"github.com/mushroomhunter/backend/internal/repository"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

type StatisticDomain interface {
	GetLeaderBoard(context.Context, *model.GetLeaderBoardRequest) (*model.GetLeaderBoardResponse, error)
	GetMyRank(context.Context, *model.GetMyRankRequest) (*model.GetMyRankResponse, error)
}

type statisticDomain struct {
	userRepo        repository.UserRepository
	progressionRepo repository.ProgressionRepository
	leaderboard     leaderboard.Leaderboard
}

func NewStatisticDomain(
	userRepo repository.UserRepository,
	progressionRepo repository.ProgressionRepository,
	leaderboard leaderboard.Leaderboard,
) *statisticDomain {
	return &statisticDomain{
		userRepo:        userRepo,
		progressionRepo: progressionRepo,
		leaderboard:     leaderboard,
	}
}

func (d *statisticDomain) GetLeaderBoard(
	ctx context.Context, req *model.GetLeaderBoardRequest,
) (*model.GetLeaderBoardResponse, error) {
	period, err := leaderboard.ToPeriod(req.Period)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period")
	}

	cfg := xcontext.Configs(ctx).Leaderboard
	// If the limit is not set, the default value is used.
	if req.Limit == 0 {
		req.Limit = cfg.DefaultLimit
	}

	if req.Limit > cfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", cfg.MaxLimit)
	}

	entries, err := d.leaderboard.GetLeaderBoard(ctx, period, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	userIDs := []string{}
	for _, e := range entries {
		userIDs = append(userIDs, e.UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	progressions, err := d.progressionRepo.GetByUserIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get progressions: %v", err)
		return nil, errorx.Unknown
	}

	userMap := map[string]*entity.User{}
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	progressionMap := map[string]*entity.Progression{}
	for i := range progressions {
		progressionMap[progressions[i].UserID] = &progressions[i]
	}

	result := []model.LeaderboardEntry{}
	for _, e := range entries {
		user := convertUser(userMap[e.UserID])
		user.ID = e.UserID

		entry := model.LeaderboardEntry{
			Rank:   e.Rank,
			User:   user,
			Points: e.Points,
		}

		if p, ok := progressionMap[e.UserID]; ok {
			entry.TotalPoints = p.TotalPoints
			entry.Level = p.Level
			entry.MushroomsFound = p.MushroomsFound
		}

		result = append(result, entry)
	}

	return &model.GetLeaderBoardResponse{Period: req.Period, LeaderBoard: result}, nil
}

func (d *statisticDomain) GetMyRank(
	ctx context.Context, req *model.GetMyRankRequest,
) (*model.GetMyRankResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Unknown user")
	}

	period, err := leaderboard.ToPeriod(req.Period)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period")
	}

	rank, err := d.leaderboard.GetRank(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	return &model.GetMyRankResponse{Rank: rank}, nil
}
