package repository

import (
	"context"
	"errors"

	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

// ErrVersionConflict is returned when the progression was written by someone
// else since it was loaded.
var ErrVersionConflict = errors.New("progression version conflict")

type ProgressionRepository interface {
	Create(ctx context.Context, data *entity.Progression) error
	Get(ctx context.Context, userID string) (*entity.Progression, error)
	GetByUserIDs(ctx context.Context, userIDs []string) ([]entity.Progression, error)
	Update(ctx context.Context, data *entity.Progression) error
}

type progressionRepository struct{}

func NewProgressionRepository() *progressionRepository {
	return &progressionRepository{}
}

// Create returns ErrVersionConflict if the progression of the user was created
// by someone else.
func (r *progressionRepository) Create(ctx context.Context, data *entity.Progression) error {
	tx := xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrVersionConflict
	}

	return nil
}

func (r *progressionRepository) Get(ctx context.Context, userID string) (*entity.Progression, error) {
	var result entity.Progression
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *progressionRepository) GetByUserIDs(
	ctx context.Context, userIDs []string,
) ([]entity.Progression, error) {
	var result []entity.Progression
	if err := xcontext.DB(ctx).Find(&result, "user_id IN (?)", userIDs).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// Update writes the progression only if its version is unchanged since it was
// loaded, then bumps the version of data.
func (r *progressionRepository) Update(ctx context.Context, data *entity.Progression) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Progression{}).
		Where("user_id=? AND version=?", data.UserID, data.Version).
		Updates(map[string]any{
			"total_points":             data.TotalPoints,
			"experience":               data.Experience,
			"level":                    data.Level,
			"experience_to_next_level": data.ExperienceToNextLevel,
			"daily_streak":             data.DailyStreak,
			"longest_streak":           data.LongestStreak,
			"last_active_date":         data.LastActiveDate,
			"mushrooms_found":          data.MushroomsFound,
			"rare_finds":               data.RareFinds,
			"spots_shared":             data.SpotsShared,
			"version":                  data.Version + 1,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrVersionConflict
	}

	data.Version++
	return nil
}
