package migration_test

import (
	"testing"

	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/migration"
	"github.com/mushroomhunter/backend/pkg/testutil"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestMigrate0001(t *testing.T) {
	ctx := testutil.MockContext()
	require.NoError(t, migration.Migrators["0000"](ctx))

	require.NoError(t, xcontext.DB(ctx).Create(&entity.Progression{
		UserID:      "user1",
		Level:       1,
		DailyStreak: 4,
	}).Error)

	require.NoError(t, migration.Migrators["0001"](ctx))

	var p entity.Progression
	require.NoError(t, xcontext.DB(ctx).Take(&p, "user_id=?", "user1").Error)
	require.Equal(t, 4, p.LongestStreak)
}
