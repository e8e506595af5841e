package migration

import (
	"context"

	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// migrate0001 backfills the longest streak of progressions created before the
// column existed.
func migrate0001(ctx context.Context) error {
	return xcontext.DB(ctx).
		Model(&entity.Progression{}).
		Where("longest_streak < daily_streak").
		Update("longest_streak", gorm.Expr("daily_streak")).Error
}
