package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	PointsAwardedTotal         = "points_awarded_total"
	QuestCompletedTotal        = "quest_completed_total"
	AchievementUnlockedTotal   = "achievement_unlocked_total"
	OfflineActionTotal         = "offline_action_total"
	OfflinePendingUsers        = "offline_pending_users"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{
		OfflinePendingUsers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: OfflinePendingUsers,
			Help: "Number of users having queued offline actions at the last flush",
		}, []string{}),
	}

	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "code"}),
		PointsAwardedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: PointsAwardedTotal,
			Help: "Sum of all points awarded to users",
		}, []string{"source"}),
		QuestCompletedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: QuestCompletedTotal,
			Help: "Count of all completed quests",
		}, []string{"type"}),
		AchievementUnlockedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: AchievementUnlockedTotal,
			Help: "Count of all unlocked achievements",
		}, []string{"code"}),
		OfflineActionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: OfflineActionTotal,
			Help: "Count of all replayed offline actions",
		}, []string{"type", "status"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "code"}),
	}
)
