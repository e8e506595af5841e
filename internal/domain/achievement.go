package domain

import (
	"context"

	"github.com/mushroomhunter/backend/internal/domain/achievement"
	"github.com/mushroomhunter/backend/internal/model"
	"github.com/mushroomhunter/backend/internal/repository"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

type AchievementDomain interface {
	GetAchievements(context.Context, *model.GetAchievementsRequest) (*model.GetAchievementsResponse, error)
}

type achievementDomain struct {
	achievementRepo repository.UnlockedAchievementRepository
	achievements    *achievement.Manager
}

func NewAchievementDomain(
	achievementRepo repository.UnlockedAchievementRepository,
	achievements *achievement.Manager,
) *achievementDomain {
	return &achievementDomain{achievementRepo: achievementRepo, achievements: achievements}
}

// GetAchievements returns the whole catalog with the unlock status of the
// request user.
func (d *achievementDomain) GetAchievements(
	ctx context.Context, req *model.GetAchievementsRequest,
) (*model.GetAchievementsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Unknown user")
	}

	unlocked, err := d.achievementRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get unlocked achievements: %v", err)
		return nil, errorx.Unknown
	}

	unlockedAt := map[string]int{}
	for i, a := range unlocked {
		unlockedAt[a.Code] = i
	}

	result := []model.Achievement{}
	for _, def := range d.achievements.All() {
		a := model.Achievement{
			Code:        def.Code,
			Title:       def.Title,
			Description: def.Description,
			Points:      def.Points,
		}

		if i, ok := unlockedAt[def.Code]; ok {
			a.Unlocked = true
			a.UnlockedAt = &unlocked[i].UnlockedAt
		}

		result = append(result, a)
	}

	return &model.GetAchievementsResponse{Achievements: result}, nil
}
