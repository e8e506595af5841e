package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/mushroomhunter/backend/pkg/storage"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	Database     DatabaseConfigs     `toml:"database"`
	ApiServer    ServerConfigs       `toml:"api_server"`
	Redis        RedisConfigs        `toml:"redis"`
	Kafka        KafkaConfigs        `toml:"kafka"`
	Notification NotificationConfigs `toml:"notification"`
	Storage      storage.S3Configs   `toml:"storage"`
	Progression  ProgressionConfigs  `toml:"progression"`
	OfflineQueue OfflineQueueConfigs `toml:"offline_queue"`
	Leaderboard  LeaderboardConfigs  `toml:"leaderboard"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	LogLevel string `toml:"log_level"`
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host        string           `toml:"host"`
	Port        string           `toml:"port"`
	AllowOrigin []string         `toml:"allow_origin"`
	RateLimit   RateLimitConfigs `toml:"rate_limit"`

	// NodeID must be unique per running instance, it is part of generated ids.
	NodeID       int64 `toml:"node_id"`
	DefaultLimit int   `toml:"default_limit"`
	MaxLimit     int   `toml:"max_limit"`
}

// RateLimitConfigs is the token bucket applied per client address.
type RateLimitConfigs struct {
	Rate  float64 `toml:"rate"`
	Burst int     `toml:"burst"`
}

type RedisConfigs struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type KafkaConfigs struct {
	Addrs      []string `toml:"addrs"`
	EventTopic string   `toml:"event_topic"`
	GroupID    string   `toml:"group_id"`
}

type NotificationConfigs struct {
	// Provider is either fcm or log.
	Provider           string `toml:"provider"`
	FCMCredentialsFile string `toml:"fcm_credentials_file"`
	FCMCredentialsJSON string `toml:"fcm_credentials_json"`
	TopicPrefix        string `toml:"topic_prefix"`
}

type ProgressionConfigs struct {
	Scoring ScoringConfigs `toml:"scoring"`

	InitialExperienceThreshold int     `toml:"initial_experience_threshold"`
	LevelGrowthFactor          float64 `toml:"level_growth_factor"`

	RareCollectorTarget   int `toml:"rare_collector_target"`
	SpeciesMasterTarget   int `toml:"species_master_target"`
	StreakWarriorDays     int `toml:"streak_warrior_days"`
	CommunityHelperShares int `toml:"community_helper_shares"`
	EarlyBirdHour         int `toml:"early_bird_hour"`
	NightOwlHour          int `toml:"night_owl_hour"`
}

type ScoringConfigs struct {
	BasePoints        map[string]int `toml:"base_points"`
	DefaultBasePoints int            `toml:"default_base_points"`

	FirstOfDayMultiplier   float64 `toml:"first_of_day_multiplier"`
	NewZoneMultiplier      float64 `toml:"new_zone_multiplier"`
	PerfectPhotoMultiplier float64 `toml:"perfect_photo_multiplier"`
	GroupHuntMultiplier    float64 `toml:"group_hunt_multiplier"`

	WeatherBonuses map[string]float64 `toml:"weather_bonuses"`
}

type OfflineQueueConfigs struct {
	MaxRetries     int      `toml:"max_retries"`
	InitialBackoff Duration `toml:"initial_backoff"`
	MaxBackoff     Duration `toml:"max_backoff"`
	FlushInterval  Duration `toml:"flush_interval"`
}

type LeaderboardConfigs struct {
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`
}

// Duration decodes strings such as "500ms" or "1m" from toml files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load reads configs from a toml file on top of the defaults, then applies
// the secrets found in the environment (or in a .env file).
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
		}
	}

	// The .env file is optional.
	_ = godotenv.Load()

	overrideString(&cfg.Env, "ENV")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideString(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.Database, "DB_NAME")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.ApiServer.Port, "API_PORT")
	overrideString(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideString(&cfg.Storage.AccessKey, "S3_ACCESS_KEY")
	overrideString(&cfg.Storage.SecretKey, "S3_SECRET_KEY")
	overrideString(&cfg.Notification.FCMCredentialsJSON, "FCM_SERVICE_ACCOUNT_JSON")

	if v := os.Getenv("OFFLINE_QUEUE_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Configs{}, fmt.Errorf("invalid OFFLINE_QUEUE_MAX_RETRIES: %w", err)
		}
		cfg.OfflineQueue.MaxRetries = n
	}

	return cfg, nil
}

func overrideString(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}
