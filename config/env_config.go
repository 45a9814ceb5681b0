package config

import (
	"os"
	"strconv"
	"strings"
)

type EnvConfig struct {
	Server struct {
		Port string
	}
	Postgres struct {
		Host     string
		Database string
		Username string
		Password string
		Port     string
	}
	Redis struct {
		Password string
		Database int
		Host     string
		Port     string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	Minio struct {
		Endpoint     string
		RootUser     string
		RootPassword string
		Bucket       string
		UseSSL       bool
	}
	Upload struct {
		RootPrefix  string // prefix for stored blobs inside the bucket/local root
		LocalDir    string // local fallback root when MinIO is not configured
		MaxFileSize int64  // per-file upload limit in bytes
	}
	Admin struct {
		JWTSecretKey      string
		OverrideDeleteKey string // operator credential accepted by hard delete
	}
	JWT struct {
		Expire int
	}
	CORS struct {
		AllowDomains string
		GlobalDomain string
	}
	Otel struct {
		OTLPEndpoint string
		ServiceName  string
	}
	Environment struct {
		Mode  string
		Group string
	}
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	config.Server.Port = os.Getenv("SERVER_PORT")
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}

	// Postgres
	config.Postgres.Host = os.Getenv("PGPOOL_HOST")
	config.Postgres.Database = os.Getenv("PGPOOL_DB")
	config.Postgres.Username = os.Getenv("PGPOOL_USER")
	config.Postgres.Password = os.Getenv("PGPOOL_PASSWORD")
	config.Postgres.Port = os.Getenv("PGPOOL_PORT")
	if config.Postgres.Port == "" {
		config.Postgres.Port = "5432"
	}

	// Redis
	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.Host = os.Getenv("REDIS_HOST")
	config.Redis.Port = os.Getenv("REDIS_PORT")
	if config.Redis.Port == "" {
		config.Redis.Port = "6379"
	}

	// RabbitMQ
	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	if config.RabbitMQ.Host == "" {
		config.RabbitMQ.Host = "localhost"
	}
	config.RabbitMQ.Port = os.Getenv("RABBITMQ_PORT")
	if config.RabbitMQ.Port == "" {
		config.RabbitMQ.Port = "5672"
	}
	config.RabbitMQ.Username = os.Getenv("RABBITMQ_USER")
	if config.RabbitMQ.Username == "" {
		config.RabbitMQ.Username = "guest"
	}
	config.RabbitMQ.Password = os.Getenv("RABBITMQ_PASSWORD")
	if config.RabbitMQ.Password == "" {
		config.RabbitMQ.Password = "guest"
	}

	// MinIO (optional: when endpoint is empty the local disk store is used)
	config.Minio.Endpoint = os.Getenv("MINIO_ENDPOINT")
	config.Minio.RootUser = os.Getenv("MINIO_ROOT_USER")
	config.Minio.RootPassword = os.Getenv("MINIO_ROOT_PASSWORD")
	config.Minio.Bucket = os.Getenv("MINIO_BUCKET")
	if config.Minio.Bucket == "" {
		config.Minio.Bucket = "drops"
	}
	config.Minio.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"

	// Upload
	config.Upload.RootPrefix = os.Getenv("UPLOAD_ROOT_PREFIX")
	if config.Upload.RootPrefix == "" {
		config.Upload.RootPrefix = "uploads/drops"
	}
	config.Upload.RootPrefix = strings.Trim(config.Upload.RootPrefix, "/")
	config.Upload.LocalDir = os.Getenv("UPLOAD_LOCAL_DIR")
	if config.Upload.LocalDir == "" {
		config.Upload.LocalDir = "./storage"
	}
	if sizeStr := os.Getenv("UPLOAD_MAX_FILE_SIZE"); sizeStr != "" {
		if size, err := strconv.ParseInt(sizeStr, 10, 64); err == nil {
			config.Upload.MaxFileSize = size
		}
	}
	if config.Upload.MaxFileSize == 0 {
		config.Upload.MaxFileSize = 2 << 30 // Default 2GB
	}

	// Admin
	config.Admin.JWTSecretKey = os.Getenv("JWT_SECRET_KEY")
	config.Admin.OverrideDeleteKey = os.Getenv("OVERRIDE_DELETE_KEY")

	if val := os.Getenv("JWT_EXPIRE"); val != "" {
		config.JWT.Expire, _ = strconv.Atoi(val)
	} else {
		config.JWT.Expire = 3600 * 24 * 7
	}

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")
	config.CORS.GlobalDomain = os.Getenv("GLOBAL_DOMAIN")

	// OpenTelemetry
	otlpEndpoint := os.Getenv("OTLP_ENDPOINT")
	// Remove protocol so the OTLP HTTP client does not end up with a duplicate scheme
	otlpEndpoint = strings.TrimPrefix(otlpEndpoint, "https://")
	otlpEndpoint = strings.TrimPrefix(otlpEndpoint, "http://")
	config.Otel.OTLPEndpoint = otlpEndpoint
	config.Otel.ServiceName = os.Getenv("OTEL_SERVICE_NAME")
	if config.Otel.ServiceName == "" {
		config.Otel.ServiceName = "gau-drop-service"
	}

	config.Environment.Mode = os.Getenv("ENVIRONMENT_MODE")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}
	config.Environment.Group = os.Getenv("ENVIRONMENT_GROUP")

	return &config
}
