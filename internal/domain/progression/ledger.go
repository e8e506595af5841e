package progression

import (
	"database/sql"
	"math"
	"time"

	"github.com/mushroomhunter/backend/config"
	"github.com/mushroomhunter/backend/internal/domain/event"
	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/pkg/dateutil"
	"github.com/mushroomhunter/backend/pkg/errorx"
)

// Ledger mutates a progression state owned by the caller. It never does I/O,
// persisting the state is the responsibility of the caller.
type Ledger struct {
	initialThreshold int
	growthFactor     float64
}

func NewLedger(cfg config.ProgressionConfigs) *Ledger {
	return &Ledger{
		initialThreshold: cfg.InitialExperienceThreshold,
		growthFactor:     cfg.LevelGrowthFactor,
	}
}

// NewState returns the progression of a user who has never earned anything.
func (l *Ledger) NewState(userID string) *entity.Progression {
	return &entity.Progression{
		UserID:                userID,
		Level:                 1,
		ExperienceToNextLevel: l.initialThreshold,
	}
}

// AddPoints adds points to both total points and experience, then levels up as
// many times as the experience allows.
func (l *Ledger) AddPoints(state *entity.Progression, points int, source string) ([]event.Event, error) {
	if points < 0 {
		return nil, errorx.New(errorx.BadRequest, "Points must not be negative, got %d", points)
	}

	if points == 0 {
		return nil, nil
	}

	state.TotalPoints += points
	state.Experience += points

	events := []event.Event{
		event.New(event.PointsAwarded, state.UserID, event.PointsAwardedPayload{
			Points:      points,
			TotalPoints: state.TotalPoints,
			Source:      source,
		}),
	}

	for state.Experience >= state.ExperienceToNextLevel {
		state.Experience -= state.ExperienceToNextLevel
		state.Level++
		state.ExperienceToNextLevel = l.nextThreshold(state.ExperienceToNextLevel)

		events = append(events, event.New(event.LevelUp, state.UserID, event.LevelUpPayload{
			Level:                 state.Level,
			ExperienceToNextLevel: state.ExperienceToNextLevel,
		}))
	}

	return events, nil
}

func (l *Ledger) nextThreshold(previous int) int {
	next := int(math.Floor(float64(previous) * l.growthFactor))
	// A threshold which does not grow would loop forever on large awards.
	if next <= previous {
		next = previous + 1
	}

	return next
}

// UpdateDailyStreak records activity on the calendar day of today, in the
// location of today. Calling it again on the same day changes nothing.
func (l *Ledger) UpdateDailyStreak(state *entity.Progression, today time.Time) []event.Event {
	if state.LastActiveDate.Valid && dateutil.IsSameDay(today, state.LastActiveDate.Time) {
		return nil
	}

	if state.LastActiveDate.Valid && dateutil.IsYesterday(state.LastActiveDate.Time, today) {
		state.DailyStreak++
	} else {
		state.DailyStreak = 1
	}

	if state.DailyStreak > state.LongestStreak {
		state.LongestStreak = state.DailyStreak
	}

	state.LastActiveDate = sql.NullTime{Valid: true, Time: today}

	return []event.Event{
		event.New(event.StreakUpdated, state.UserID, event.StreakUpdatedPayload{
			DailyStreak:   state.DailyStreak,
			LongestStreak: state.LongestStreak,
		}),
	}
}
