package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisLockDB      int    `mapstructure:"REDIS_LOCK_DB"`
	RedisTaskQueueDB int    `mapstructure:"REDIS_TASK_QUEUE_DB"`

	// Scheduling parameters. BufferMinutes is the fixed gap enforced between
	// consecutive bookings on one employee's timeline.
	BufferMinutes      int    `mapstructure:"BUFFER_MINUTES"`
	TickIntervalSecs   int    `mapstructure:"TICK_INTERVAL_SECONDS"`
	MissedGraceMinutes int    `mapstructure:"MISSED_GRACE_MINUTES"`
	Timezone           string `mapstructure:"TIMEZONE"`

	// Cascade notification heuristics: notify a customer when their wait
	// improves by at least MinImprovement minutes, or drops below WaitThreshold.
	CascadeNotifyMinImprovement int `mapstructure:"CASCADE_NOTIFY_MIN_IMPROVEMENT"`
	CascadeNotifyWaitThreshold  int `mapstructure:"CASCADE_NOTIFY_WAIT_THRESHOLD"`

	// Firebase service account for FCM pushes.
	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_LOCK_DB", 1)
	viper.SetDefault("REDIS_TASK_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "trimly")
	viper.SetDefault("BUFFER_MINUTES", 5)
	viper.SetDefault("TICK_INTERVAL_SECONDS", 60)
	viper.SetDefault("MISSED_GRACE_MINUTES", 10)
	viper.SetDefault("TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("CASCADE_NOTIFY_MIN_IMPROVEMENT", 5)
	viper.SetDefault("CASCADE_NOTIFY_WAIT_THRESHOLD", 10)
	viper.SetDefault("FIREBASE_CREDENTIALS_PATH", "serviceAccountKey.json")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
