package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCurrentWeek(t *testing.T) {
	// 2024-05-16 is a Thursday.
	thursday := time.Date(2024, 5, 16, 18, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), CurrentWeek(thursday))

	sunday := time.Date(2024, 5, 19, 23, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), CurrentWeek(sunday))

	require.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), NextWeek(sunday))
}

func TestMonth(t *testing.T) {
	now := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), CurrentMonth(now))
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), NextMonth(now))
	require.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), LastMonth(now))
}

func TestCalendarDay(t *testing.T) {
	late := time.Date(2024, 5, 16, 23, 59, 0, 0, time.UTC)
	early := time.Date(2024, 5, 17, 0, 1, 0, 0, time.UTC)

	require.False(t, IsSameDay(late, early))
	require.True(t, IsYesterday(late, early))
	require.False(t, IsYesterday(late.AddDate(0, 0, -1), early))
	require.True(t, IsSameDay(early, early.Add(12*time.Hour)))
}
