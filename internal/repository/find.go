package repository

import (
	"context"
	"time"

	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

// FindFilter selects finds in the window [StartTime, EndTime). Zero values are
// not filtered.
type FindFilter struct {
	UserID    string
	Zone      string
	StartTime time.Time
	EndTime   time.Time
}

type FindRepository interface {
	Create(ctx context.Context, data *entity.Find) error
	GetByID(ctx context.Context, id string) (*entity.Find, error)
	Count(ctx context.Context, filter FindFilter) (int64, error)
	CountDistinctSpecies(ctx context.Context, userID string) (int64, error)
	Statistic(ctx context.Context, filter FindFilter) ([]entity.UserStatistic, error)
}

type findRepository struct{}

func NewFindRepository() *findRepository {
	return &findRepository{}
}

func (r *findRepository) Create(ctx context.Context, data *entity.Find) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *findRepository) GetByID(ctx context.Context, id string) (*entity.Find, error) {
	var result entity.Find
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *findRepository) Count(ctx context.Context, filter FindFilter) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Find{})
	tx = applyFindFilter(tx, filter)

	var result int64
	if err := tx.Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func (r *findRepository) CountDistinctSpecies(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Find{}).
		Where("user_id=?", userID).
		Distinct("mushroom_id").
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

// Statistic sums the points of finds per user.
func (r *findRepository) Statistic(
	ctx context.Context, filter FindFilter,
) ([]entity.UserStatistic, error) {
	tx := xcontext.DB(ctx).Model(&entity.Find{}).
		Select("user_id, SUM(points) as points, COUNT(*) as finds").
		Group("user_id")
	tx = applyFindFilter(tx, filter)

	var result []entity.UserStatistic
	if err := tx.Scan(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
