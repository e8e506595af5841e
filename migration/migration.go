package migration

import (
	"context"

	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

type Migrator func(context.Context) error

// Migrators are run on demand by the migrate command, keyed by version.
var Migrators = map[string]Migrator{
	"0000": migrate0000,
	"0001": migrate0001,
}

// AutoMigrate creates or alters every table to match the current entities.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.Progression{},
		&entity.UnlockedAchievement{},
		&entity.Quest{},
		&entity.Find{},
		&entity.QueuedAction{},
		&entity.Connectivity{},
	)
}
