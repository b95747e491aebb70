package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// User store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreRedis    = "redis"
)

// Upload storage backends.
const (
	StorageDisk  = "disk"
	StorageMinio = "minio"
	StorageS3    = "s3"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	HTTP    HTTPConfig
	Store   StoreConfig
	Uploads UploadConfig

	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Minio    MinioConfig
	S3       S3Config
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL, default=1h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`

	// UsersRequireAdmin gates GET /users behind a token whose username is
	// listed in AdminUsernames.
	UsersRequireAdmin bool     `env:"USERS_REQUIRE_ADMIN, default=false"`
	AdminUsernames    []string `env:"ADMIN_USERNAMES"`
}

type HTTPConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*"`
	StaticDir      string   `env:"STATIC_DIR, default=public"`
}

type StoreConfig struct {
	Backend   string `env:"USER_STORE, default=file"`
	UsersFile string `env:"USERS_FILE, default=users.json"`
}

type UploadConfig struct {
	Backend  string `env:"UPLOAD_STORAGE, default=disk"`
	Dir      string `env:"UPLOAD_DIR, default=uploads"`
	MaxBytes int64  `env:"MAX_UPLOAD_BYTES, default=10485760"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=upload_gateway"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT, default=localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET, default=uploads"`
	UseSSL    bool   `env:"MINIO_USE_SSL, default=false"`
}

type S3Config struct {
	Region       string `env:"S3_REGION, default=us-east-1"`
	BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
	AccessKey    string `env:"S3_ACCESS_KEY"`
	SecretKey    string `env:"S3_SECRET_KEY"`
	Bucket       string `env:"S3_BUCKET, default=uploads"`
	UsePathStyle bool   `env:"S3_USE_PATH_STYLE, default=false"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return FromEnv(context.Background())
}

// FromEnv reads configuration from the process environment only.
func FromEnv(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects combinations envconfig cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Uploads.MaxBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	switch c.Store.Backend {
	case StoreFile, StoreMongo, StoreRedis:
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required when USER_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown USER_STORE %q", c.Store.Backend)
	}

	switch c.Uploads.Backend {
	case StorageDisk, StorageMinio, StorageS3:
	default:
		return fmt.Errorf("unknown UPLOAD_STORAGE %q", c.Uploads.Backend)
	}

	if c.Auth.UsersRequireAdmin && len(c.Auth.AdminUsernames) == 0 {
		return errors.New("ADMIN_USERNAMES is required when USERS_REQUIRE_ADMIN=true")
	}
	return nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
