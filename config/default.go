package config

import "time"

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "mushroomhunter",
			User:     "mushroomhunter",
			LogLevel: "error",
		},
		ApiServer: ServerConfigs{
			Port:         "8080",
			AllowOrigin:  []string{"*"},
			RateLimit:    RateLimitConfigs{Rate: 5, Burst: 30},
			NodeID:       1,
			DefaultLimit: 20,
			MaxLimit:     100,
		},
		Redis: RedisConfigs{Addr: "localhost:6379"},
		Kafka: KafkaConfigs{
			Addrs:      []string{"localhost:9092"},
			EventTopic: "progression_event",
			GroupID:    "progression_notifier",
		},
		Notification: NotificationConfigs{
			Provider:    "log",
			TopicPrefix: "user_",
		},
		Progression: ProgressionConfigs{
			Scoring: ScoringConfigs{
				BasePoints: map[string]int{
					"common":    15,
					"uncommon":  45,
					"rare":      95,
					"very_rare": 225,
					"legendary": 700,
				},
				DefaultBasePoints:      10,
				FirstOfDayMultiplier:   2,
				NewZoneMultiplier:      1.5,
				PerfectPhotoMultiplier: 1.3,
				GroupHuntMultiplier:    1.2,
				WeatherBonuses: map[string]float64{
					"sunny":      1.0,
					"cloudy":     1.2,
					"rainy":      1.5,
					"after_rain": 2.0,
					"foggy":      1.3,
				},
			},
			InitialExperienceThreshold: 100,
			LevelGrowthFactor:          1.5,
			RareCollectorTarget:        10,
			SpeciesMasterTarget:        25,
			StreakWarriorDays:          7,
			CommunityHelperShares:      10,
			EarlyBirdHour:              7,
			NightOwlHour:               22,
		},
		OfflineQueue: OfflineQueueConfigs{
			MaxRetries:     3,
			InitialBackoff: Duration{500 * time.Millisecond},
			MaxBackoff:     Duration{time.Minute},
			FlushInterval:  Duration{5 * time.Minute},
		},
		Leaderboard: LeaderboardConfigs{
			DefaultLimit: 50,
			MaxLimit:     100,
		},
	}
}
