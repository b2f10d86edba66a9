package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBSSLMode   string

	RedisURL string

	JWTSecret      string
	JWTTTL         time.Duration
	AuthHeaderShim bool

	RateLimitRPS   float64
	RateLimitBurst int

	ShutdownTimeout time.Duration

	StaticDir string
	UploadDir string
	BaseURL   string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSS3Bucket        string

	FirebaseServiceAccountPath string

	SMTPHost      string
	SMTPPort      string
	EmailFrom     string
	EmailPassword string

	ArchiveRetention time.Duration
	ArchiveCron      string
	TZ               string
}

// LoadDotEnv reads .env into the process environment. A missing file is
// reported but not fatal; the process environment still applies.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load builds a Config from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnvStr(EnvPort, DefaultPort),
		LogLevel: getEnvStr(EnvLogLevel, DefaultLogLevel),

		DatabaseURL: getEnvStr(EnvDatabaseURL, ""),
		DBHost:      getEnvStr(EnvDBHost, DefaultDBHost),
		DBUser:      getEnvStr(EnvDBUser, DefaultDBUser),
		DBPassword:  getEnvStr(EnvDBPassword, ""),
		DBName:      getEnvStr(EnvDBName, DefaultDBName),
		DBPort:      getEnvStr(EnvDBPort, DefaultDBPort),
		DBSSLMode:   getEnvStr(EnvDBSSLMode, DefaultDBSSLMode),

		RedisURL: getEnvStr(EnvRedisURL, ""),

		JWTSecret:      getEnvStr(EnvJWTSecret, ""),
		JWTTTL:         getEnvDuration(EnvJWTTTL, DefaultJWTTTL),
		AuthHeaderShim: getEnvBool(EnvAuthHeaderShim, false),

		RateLimitRPS:   getEnvFloat(EnvRateLimitRPS, DefaultRateLimitRPS),
		RateLimitBurst: getEnvNum(EnvRateLimitBurst, DefaultRateLimitBurst),

		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		StaticDir: getEnvStr(EnvStaticDir, DefaultStaticDir),
		UploadDir: getEnvStr(EnvUploadDir, DefaultUploadDir),
		BaseURL:   strings.TrimRight(getEnvStr(EnvBaseURL, DefaultBaseURL), "/"),

		AWSRegion:          getEnvStr(EnvAWSRegion, ""),
		AWSAccessKeyID:     getEnvStr(EnvAWSAccessKeyID, ""),
		AWSSecretAccessKey: getEnvStr(EnvAWSSecretAccessKey, ""),
		AWSS3Bucket:        getEnvStr(EnvAWSS3Bucket, ""),

		FirebaseServiceAccountPath: getEnvStr(EnvFirebaseServiceAccountPath, ""),

		SMTPHost:      getEnvStr(EnvSMTPHost, ""),
		SMTPPort:      getEnvStr(EnvSMTPPort, DefaultSMTPPort),
		EmailFrom:     getEnvStr(EnvEmailFrom, ""),
		EmailPassword: getEnvStr(EnvEmailPassword, ""),

		ArchiveRetention: getEnvDuration(EnvArchiveRetention, DefaultArchiveRetention),
		ArchiveCron:      getEnvStr(EnvArchiveCron, DefaultArchiveCron),
		TZ:               getEnvStr(EnvTZ, DefaultTZ),
	}

	if cfg.JWTSecret == "" && cfg.AuthHeaderShim {
		cfg.JWTSecret = DevJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}
	if cfg.JWTSecret == "" {
		errors = append(errors, "JWTSecret cannot be empty")
	}
	if cfg.JWTTTL <= 0 {
		errors = append(errors, fmt.Sprintf("JWTTTL must be positive, got: %s", cfg.JWTTTL))
	}
	if cfg.RateLimitRPS <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRPS must be positive, got: %v", cfg.RateLimitRPS))
	}
	if cfg.RateLimitBurst <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitBurst must be positive, got: %d", cfg.RateLimitBurst))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.ArchiveRetention <= 0 {
		errors = append(errors, fmt.Sprintf("ArchiveRetention must be positive, got: %s", cfg.ArchiveRetention))
	}
	if _, err := time.LoadLocation(cfg.TZ); err != nil {
		errors = append(errors, fmt.Sprintf("TZ must be a valid IANA zone, got: %s", cfg.TZ))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}
	return nil
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN assembled
// from the DB_* settings.
func (cfg *Config) DSN() string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
	)
}

func (cfg *Config) S3Enabled() bool {
	return cfg.AWSS3Bucket != "" && cfg.AWSRegion != ""
}

func (cfg *Config) EmailEnabled() bool {
	return cfg.SMTPHost != "" && cfg.EmailFrom != ""
}

// LogFields returns the loaded configuration with secrets redacted.
func (cfg *Config) LogFields() []any {
	return []any{
		"port", cfg.Port,
		"database", redactURL(cfg.DSN()),
		"redis_set", cfg.RedisURL != "",
		"auth_header_shim", cfg.AuthHeaderShim,
		"jwt_ttl", cfg.JWTTTL,
		"rate_limit_rps", cfg.RateLimitRPS,
		"rate_limit_burst", cfg.RateLimitBurst,
		"s3_enabled", cfg.S3Enabled(),
		"firebase_set", cfg.FirebaseServiceAccountPath != "",
		"email_enabled", cfg.EmailEnabled(),
		"archive_retention", cfg.ArchiveRetention,
		"archive_cron", cfg.ArchiveCron,
		"tz", cfg.TZ,
	}
}

var (
	urlCredentials = regexp.MustCompile(`(://)[^:/@]+:[^@]+@`)
	kvPassword     = regexp.MustCompile(`password=\S*`)
)

func redactURL(dsn string) string {
	dsn = urlCredentials.ReplaceAllString(dsn, "${1}***:***@")
	return kvPassword.ReplaceAllString(dsn, "password=***")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
