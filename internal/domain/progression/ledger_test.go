package progression

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mushroomhunter/backend/config"
	"github.com/mushroomhunter/backend/internal/domain/event"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/stretchr/testify/require"
)

func newTestLedger() *Ledger {
	return NewLedger(config.Default().Progression)
}

func TestAddPoints(t *testing.T) {
	l := newTestLedger()
	state := l.NewState("user1")

	events, err := l.AddPoints(state, 40, "find")
	require.NoError(t, err)
	require.Equal(t, 40, state.TotalPoints)
	require.Equal(t, 40, state.Experience)
	require.Equal(t, 1, state.Level)
	require.Len(t, events, 1)
	require.Equal(t, event.PointsAwarded, events[0].Kind)
}

func TestAddPoints_MultipleLevelUps(t *testing.T) {
	l := newTestLedger()
	state := l.NewState("user1")

	// 250 - 100 = 150 -> level 2 (threshold 150), 150 - 150 = 0 -> level 3 (threshold 225).
	events, err := l.AddPoints(state, 250, "find")
	require.NoError(t, err)
	require.Equal(t, 3, state.Level)
	require.Equal(t, 0, state.Experience)
	require.Equal(t, 225, state.ExperienceToNextLevel)
	require.Equal(t, 250, state.TotalPoints)

	levelUps := 0
	for _, e := range events {
		if e.Kind == event.LevelUp {
			levelUps++
		}
	}
	require.Equal(t, 2, levelUps)
}

func TestAddPoints_ThresholdRoundsDown(t *testing.T) {
	l := newTestLedger()
	state := l.NewState("user1")

	// 100 -> 150 -> 225 -> 337 (floor of 337.5).
	_, err := l.AddPoints(state, 100+150+225, "find")
	require.NoError(t, err)
	require.Equal(t, 4, state.Level)
	require.Equal(t, 337, state.ExperienceToNextLevel)
}

func TestAddPoints_Invariants(t *testing.T) {
	l := newTestLedger()
	state := l.NewState("user1")

	for _, points := range []int{0, 1, 99, 100, 1000, 7, 12345, 3} {
		before := state.TotalPoints
		_, err := l.AddPoints(state, points, "find")
		require.NoError(t, err)
		require.GreaterOrEqual(t, state.TotalPoints, before)
		require.Less(t, state.Experience, state.ExperienceToNextLevel)
	}
}

func TestAddPoints_Negative(t *testing.T) {
	l := newTestLedger()
	state := l.NewState("user1")
	state.TotalPoints = 10
	state.Experience = 10

	events, err := l.AddPoints(state, -5, "find")
	require.Error(t, err)
	require.True(t, errorx.Is(err, errorx.BadRequest))
	require.Nil(t, events)
	require.Equal(t, 10, state.TotalPoints)
	require.Equal(t, 10, state.Experience)
}

func TestUpdateDailyStreak(t *testing.T) {
	l := newTestLedger()
	state := l.NewState("user1")
	day1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	events := l.UpdateDailyStreak(state, day1)
	require.Equal(t, 1, state.DailyStreak)
	require.Len(t, events, 1)

	// Same calendar day.
	events = l.UpdateDailyStreak(state, day1.Add(10*time.Hour))
	require.Equal(t, 1, state.DailyStreak)
	require.Empty(t, events)

	// Consecutive days, even if less than 24h elapsed.
	l.UpdateDailyStreak(state, time.Date(2024, 5, 2, 0, 5, 0, 0, time.UTC))
	require.Equal(t, 2, state.DailyStreak)
	l.UpdateDailyStreak(state, time.Date(2024, 5, 3, 23, 0, 0, 0, time.UTC))
	require.Equal(t, 3, state.DailyStreak)
	require.Equal(t, 3, state.LongestStreak)

	// Two days gap resets.
	l.UpdateDailyStreak(state, time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC))
	require.Equal(t, 1, state.DailyStreak)
	require.Equal(t, 3, state.LongestStreak)
	require.True(t, state.LastActiveDate.Valid)
	require.Equal(t, time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC), state.LastActiveDate.Time)
}

func TestUpdateDailyStreak_StaleRecord(t *testing.T) {
	l := newTestLedger()
	state := l.NewState("user1")
	state.DailyStreak = 9
	state.LastActiveDate = sql.NullTime{Valid: true, Time: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}

	l.UpdateDailyStreak(state, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Equal(t, 1, state.DailyStreak)
}
