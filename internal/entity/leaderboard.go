package entity

import (
	"fmt"
	"time"

	"github.com/mushroomhunter/backend/pkg/dateutil"
)

type LeaderBoardPeriodType interface {
	Name() string
	// Period identifies the window, it changes when the window rolls over.
	Period() string
	Start() time.Time
	End() time.Time
}

type LeaderBoardPeriodDay struct {
	current time.Time
}

func NewLeaderBoardPeriodDay(current time.Time) LeaderBoardPeriodDay {
	return LeaderBoardPeriodDay{current: current}
}

func (p LeaderBoardPeriodDay) Name() string {
	return "daily"
}

func (p LeaderBoardPeriodDay) Period() string {
	return fmt.Sprintf("day:%s", p.current.Format("2006-01-02"))
}

func (p LeaderBoardPeriodDay) Start() time.Time {
	return dateutil.BeginningOfDay(p.current)
}

func (p LeaderBoardPeriodDay) End() time.Time {
	return dateutil.NextDay(p.current)
}

type LeaderBoardPeriodWeek struct {
	current time.Time
}

func NewLeaderBoardPeriodWeek(current time.Time) LeaderBoardPeriodWeek {
	return LeaderBoardPeriodWeek{current: current}
}

func (p LeaderBoardPeriodWeek) Name() string {
	return "weekly"
}

func (p LeaderBoardPeriodWeek) Period() string {
	year, week := p.current.ISOWeek()
	return fmt.Sprintf("week:%d:%d", week, year)
}

func (p LeaderBoardPeriodWeek) Start() time.Time {
	return dateutil.CurrentWeek(p.current)
}

func (p LeaderBoardPeriodWeek) End() time.Time {
	return dateutil.NextWeek(p.current)
}

type LeaderBoardPeriodMonth struct {
	current time.Time
}

func NewLeaderBoardPeriodMonth(current time.Time) LeaderBoardPeriodMonth {
	return LeaderBoardPeriodMonth{current: current}
}

func (p LeaderBoardPeriodMonth) Name() string {
	return "monthly"
}

func (p LeaderBoardPeriodMonth) Period() string {
	return fmt.Sprintf("month:%d:%d", p.current.Month(), p.current.Year())
}

func (p LeaderBoardPeriodMonth) Start() time.Time {
	return dateutil.CurrentMonth(p.current)
}

func (p LeaderBoardPeriodMonth) End() time.Time {
	return dateutil.NextMonth(p.current)
}

// LeaderBoardPeriodAllTime has zero bounds, which means unbounded.
type LeaderBoardPeriodAllTime struct{}

func (LeaderBoardPeriodAllTime) Name() string {
	return "all_time"
}

func (LeaderBoardPeriodAllTime) Period() string {
	return "all"
}

func (LeaderBoardPeriodAllTime) Start() time.Time {
	return time.Time{}
}

func (LeaderBoardPeriodAllTime) End() time.Time {
	return time.Time{}
}

type UserStatistic struct {
	UserID string
	Points int
	Finds  int
}
