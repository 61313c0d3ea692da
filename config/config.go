package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Mongo configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	RedisPassword        string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int           `mapstructure:"REDIS_CACHE_DB"`
	RedisReminderQueueDB int           `mapstructure:"REDIS_REMINDER_QUEUE_DB"`
	IdempotencyTTL       time.Duration `mapstructure:"IDEMPOTENCY_TTL"`
	ReminderLead         time.Duration `mapstructure:"REMINDER_LEAD"`

	// Upload relay configuration. StorageBackend is "cloudinary" or "gcs".
	StorageBackend      string `mapstructure:"STORAGE_BACKEND"`
	UploadFolder        string `mapstructure:"UPLOAD_FOLDER"`
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	GCSBucket           string `mapstructure:"GCS_BUCKET"`
	GCSCredentialsFile  string `mapstructure:"GCS_CREDENTIALS_FILE"`

	// Submission client configuration.
	BookingEndpoint string        `mapstructure:"BOOKING_ENDPOINT"`
	SubmitTimeout   time.Duration `mapstructure:"SUBMIT_TIMEOUT"`
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

	SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// SetDefaults registers the default value of every known key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "medibook")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_REMINDER_QUEUE_DB", 3)
	v.SetDefault("IDEMPOTENCY_TTL", "10m")
	v.SetDefault("REMINDER_LEAD", "1h")
	v.SetDefault("STORAGE_BACKEND", "cloudinary")
	v.SetDefault("UPLOAD_FOLDER", "patient_reports")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("GCS_BUCKET", "")
	v.SetDefault("GCS_CREDENTIALS_FILE", "")
	v.SetDefault("BOOKING_ENDPOINT", "http://localhost:8080/api/appointments")
	// Zero means the submission call has no deadline of its own.
	v.SetDefault("SUBMIT_TIMEOUT", "0s")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
