package config

import "time"

const (
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvDBHost          = "DB_HOST"
	EnvDBUser          = "DB_USER"
	EnvDBPassword      = "DB_PASSWORD"
	EnvDBName          = "DB_NAME"
	EnvDBPort          = "DB_PORT"
	EnvDBSSLMode       = "DB_SSLMODE"
	EnvRedisURL        = "REDIS_URL"
	EnvJWTSecret       = "JWT_SECRET"
	EnvJWTTTL          = "JWT_TTL"
	EnvAuthHeaderShim  = "AUTH_HEADER_SHIM"
	EnvRateLimitRPS    = "RATE_LIMIT_RPS"
	EnvRateLimitBurst  = "RATE_LIMIT_BURST"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvStaticDir       = "STATIC_DIR"
	EnvUploadDir       = "UPLOAD_DIR"
	EnvBaseURL         = "BASE_URL"

	EnvAWSRegion          = "AWS_REGION"
	EnvAWSAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvAWSS3Bucket        = "AWS_S3_BUCKET"

	EnvFirebaseServiceAccountPath = "FIREBASE_SERVICE_ACCOUNT_PATH"

	EnvSMTPHost      = "SMTP_HOST"
	EnvSMTPPort      = "SMTP_PORT"
	EnvEmailFrom     = "EMAIL_FROM"
	EnvEmailPassword = "EMAIL_PASSWORD"

	EnvArchiveRetention = "ARCHIVE_RETENTION"
	EnvArchiveCron      = "ARCHIVE_CRON"
	EnvTZ               = "TZ"
)

const (
	DefaultPort            = "8080"
	DefaultLogLevel        = "info"
	DefaultDBHost          = "localhost"
	DefaultDBUser          = "postgres"
	DefaultDBName          = "rentmyride"
	DefaultDBPort          = "5432"
	DefaultDBSSLMode       = "disable"
	DefaultJWTTTL          = 30 * 24 * time.Hour
	DefaultRateLimitRPS    = 20.0
	DefaultRateLimitBurst  = 40
	DefaultShutdownTimeout = 15 * time.Second
	DefaultStaticDir       = "./static"
	DefaultUploadDir       = "./uploads"
	DefaultBaseURL         = "http://localhost:8080"
	DefaultSMTPPort        = "587"

	DefaultArchiveRetention = 15 * 24 * time.Hour
	DefaultArchiveCron      = "0 2 * * *"
	DefaultTZ               = "UTC"

	// DevJWTSecret is only accepted while the header shim is enabled.
	DevJWTSecret = "dev-secret-change-me"
)
