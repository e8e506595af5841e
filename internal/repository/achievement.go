package repository

import (
	"context"

	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UnlockedAchievementRepository interface {
	Create(ctx context.Context, data ...*entity.UnlockedAchievement) error
	GetByUserID(ctx context.Context, userID string) ([]entity.UnlockedAchievement, error)
}

type unlockedAchievementRepository struct{}

func NewUnlockedAchievementRepository() *unlockedAchievementRepository {
	return &unlockedAchievementRepository{}
}

// Create ignores achievements which are already unlocked.
func (r *unlockedAchievementRepository) Create(
	ctx context.Context, data ...*entity.UnlockedAchievement,
) error {
	if len(data) == 0 {
		return nil
	}

	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data).Error
}

func (r *unlockedAchievementRepository) GetByUserID(
	ctx context.Context, userID string,
) ([]entity.UnlockedAchievement, error) {
	var result []entity.UnlockedAchievement
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("unlocked_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
