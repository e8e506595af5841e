package repository

import (
	"context"

	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type QueuedActionRepository interface {
	Create(ctx context.Context, data *entity.QueuedAction) error
	// GetByUserID returns the pending actions of the user in FIFO order.
	GetByUserID(ctx context.Context, userID string) ([]entity.QueuedAction, error)
	GetPendingUserIDs(ctx context.Context) ([]string, error)
	UpdateRetry(ctx context.Context, id int64, retryCount int, lastError string) error
	Delete(ctx context.Context, ids ...int64) error
}

type queuedActionRepository struct{}

func NewQueuedActionRepository() *queuedActionRepository {
	return &queuedActionRepository{}
}

func (r *queuedActionRepository) Create(ctx context.Context, data *entity.QueuedAction) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *queuedActionRepository) GetByUserID(
	ctx context.Context, userID string,
) ([]entity.QueuedAction, error) {
	var result []entity.QueuedAction
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *queuedActionRepository) GetPendingUserIDs(ctx context.Context) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).
		Model(&entity.QueuedAction{}).
		Distinct("user_id").
		Pluck("user_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *queuedActionRepository) UpdateRetry(
	ctx context.Context, id int64, retryCount int, lastError string,
) error {
	return xcontext.DB(ctx).
		Model(&entity.QueuedAction{}).
		Where("id=?", id).
		Updates(map[string]any{
			"retry_count": retryCount,
			"last_error":  lastError,
		}).Error
}

func (r *queuedActionRepository) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Delete(&entity.QueuedAction{}, "id IN (?)", ids).Error
}

type ConnectivityRepository interface {
	Upsert(ctx context.Context, data *entity.Connectivity) error
	Get(ctx context.Context, userID string) (*entity.Connectivity, error)
}

type connectivityRepository struct{}

func NewConnectivityRepository() *connectivityRepository {
	return &connectivityRepository{}
}

func (r *connectivityRepository) Upsert(ctx context.Context, data *entity.Connectivity) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"online", "updated_at"}),
	}).Create(data).Error
}

func (r *connectivityRepository) Get(ctx context.Context, userID string) (*entity.Connectivity, error) {
	var result entity.Connectivity
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
