package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Telegram TelegramConfig
	Redis    RedisConfig
	Game     GameConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret       string
	BotSecret       string // shared secret the Telegram bot uses to call /auth endpoints
	FrontendURL     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TelegramConfig holds Telegram bot API settings
type TelegramConfig struct {
	BotToken string
}

// RedisConfig holds redis connection settings. Addr may be empty, in which
// case link-visit tracking and leaderboard caching are disabled.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// GameConfig holds game balance and timing knobs
type GameConfig struct {
	Timezone            string
	MiningDuration      time.Duration
	InspirationCooldown time.Duration
	LinkVisitTTL        time.Duration
	LeaderboardCacheTTL time.Duration

	DailyRewardAmount         int64
	DailyRewardInspirations   int64
	DailyRewardReplenishments int64

	ReferralRewardAmount         int64
	ReferralRewardInspirations   int64
	ReferralRewardReplenishments int64

	// "min": a task gated on rank R is visible from league R upward.
	// "exact": visible only at exactly rank R. Pending product confirmation.
	RankVisibilityMode string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "eden"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			BotSecret:       getEnv("BOT_SECRET", ""),
			FrontendURL:     getEnv("FRONTEND_URL", ""),
			AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
			RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 90*24*time.Hour),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       int(getEnvInt64("REDIS_DB", 0)),
		},
		Game: GameConfig{
			Timezone:            getEnv("GAME_TIMEZONE", "Europe/Moscow"),
			MiningDuration:      getEnvDuration("MINING_DURATION", 3*time.Hour),
			InspirationCooldown: getEnvDuration("INSPIRATION_COOLDOWN", 8*time.Hour),
			LinkVisitTTL:        getEnvDuration("LINK_VISIT_TTL", 30*24*time.Hour),
			LeaderboardCacheTTL: getEnvDuration("LEADERBOARD_CACHE_TTL", 30*time.Second),

			DailyRewardAmount:         getEnvInt64("DAILY_REWARD_AMOUNT", 500),
			DailyRewardInspirations:   getEnvInt64("DAILY_REWARD_INSPIRATIONS", 1),
			DailyRewardReplenishments: getEnvInt64("DAILY_REWARD_REPLENISHMENTS", 1),

			ReferralRewardAmount:         getEnvInt64("REFERRAL_REWARD_AMOUNT", 5000),
			ReferralRewardInspirations:   getEnvInt64("REFERRAL_REWARD_INSPIRATIONS", 0),
			ReferralRewardReplenishments: getEnvInt64("REFERRAL_REWARD_REPLENISHMENTS", 0),

			RankVisibilityMode: getEnv("TASK_RANK_VISIBILITY", "min"),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if config.Game.RankVisibilityMode != "min" && config.Game.RankVisibilityMode != "exact" {
		return nil, fmt.Errorf("TASK_RANK_VISIBILITY must be \"min\" or \"exact\", got %q", config.Game.RankVisibilityMode)
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt64 gets an integer environment variable with a fallback default value
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration gets a duration environment variable with a fallback default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
