package repository

import (
	"context"
	"time"

	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

type QuestRepository interface {
	Create(ctx context.Context, data *entity.Quest) error
	GetByID(ctx context.Context, id string) (*entity.Quest, error)
	GetActive(ctx context.Context, userID string, now time.Time) ([]entity.Quest, error)
	GetCompleted(ctx context.Context, userID string, offset, limit int) ([]entity.Quest, error)
	UpdateProgress(ctx context.Context, data *entity.Quest) error
}

type questRepository struct{}

func NewQuestRepository() *questRepository {
	return &questRepository{}
}

func (r *questRepository) Create(ctx context.Context, data *entity.Quest) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *questRepository) GetByID(ctx context.Context, id string) (*entity.Quest, error) {
	var result entity.Quest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetActive returns quests which are neither completed nor expired, oldest
// first.
func (r *questRepository) GetActive(
	ctx context.Context, userID string, now time.Time,
) ([]entity.Quest, error) {
	var result []entity.Quest
	err := xcontext.DB(ctx).
		Where("user_id=? AND completed_at IS NULL AND expires_at > ?", userID, now).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) GetCompleted(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Quest, error) {
	var result []entity.Quest
	err := xcontext.DB(ctx).
		Where("user_id=? AND completed_at IS NOT NULL", userID).
		Order("completed_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) UpdateProgress(ctx context.Context, data *entity.Quest) error {
	return xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=?", data.ID).
		Updates(map[string]any{
			"requirements": data.Requirements,
			"completed_at": data.CompletedAt,
		}).Error
}
