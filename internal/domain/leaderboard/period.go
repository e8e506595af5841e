package leaderboard

import (
	"fmt"
	"time"

	"github.com/mushroomhunter/backend/internal/entity"
)

const (
	Daily   = "daily"
	Weekly  = "weekly"
	Monthly = "monthly"
	AllTime = "all_time"
)

func ToPeriodWithTime(periodString string, current time.Time) (entity.LeaderBoardPeriodType, error) {
	switch periodString {
	case Daily:
		return entity.NewLeaderBoardPeriodDay(current), nil
	case Weekly:
		return entity.NewLeaderBoardPeriodWeek(current), nil
	case Monthly:
		return entity.NewLeaderBoardPeriodMonth(current), nil
	case AllTime:
		return entity.LeaderBoardPeriodAllTime{}, nil
	}

	return nil, fmt.Errorf("invalid period, expected daily, weekly, monthly or all_time, but got %s", periodString)
}

func ToPeriod(periodString string) (entity.LeaderBoardPeriodType, error) {
	return ToPeriodWithTime(periodString, time.Now())
}

// AllPeriods returns every period containing the given time.
func AllPeriods(current time.Time) []entity.LeaderBoardPeriodType {
	return []entity.LeaderBoardPeriodType{
		entity.NewLeaderBoardPeriodDay(current),
		entity.NewLeaderBoardPeriodWeek(current),
		entity.NewLeaderBoardPeriodMonth(current),
		entity.LeaderBoardPeriodAllTime{},
	}
}
