package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Store    StoreConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	S3       S3Config
	Redis    RedisConfig
	Cron     CronConfig
	Upload   UploadConfig
	Seed     SeedConfig
}

// StoreConfig selects the entity store backend
type StoreConfig struct {
	// Driver is "mysql" or "memory"
	Driver string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// S3Config holds object storage configuration
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// BaseEndpoint points at an S3 compatible service (MinIO) when set
	BaseEndpoint string
	PresignTTL   time.Duration
}

// RedisConfig holds reference cache configuration
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// CronConfig holds background job schedules
type CronConfig struct {
	ReferenceRefresh string
	FilePurge        string
	FileRetention    time.Duration
}

// UploadConfig limits multipart uploads
type UploadConfig struct {
	MaxFileSize int64
	MaxFiles    int
}

// SeedConfig holds the bootstrap superadmin account
type SeedConfig struct {
	AdminNationalID string
	AdminEmail      string
	AdminPassword   string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "5000"),
		Store:    StoreConfig{Driver: strings.ToLower(getEnv("STORE_DRIVER", "mysql"))},
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Cookie:   loadCookieConfig(appMode),
		S3:       loadS3Config(),
		Redis:    loadRedisConfig(),
		Cron:     loadCronConfig(),
		Upload:   loadUploadConfig(),
		Seed:     loadSeedConfig(),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, STORE: %s]", appMode, config.Store.Driver)
	return config, nil
}

// Validate rejects combinations the server cannot run with
func (c *Config) Validate() error {
	if c.Store.Driver != "mysql" && c.Store.Driver != "memory" {
		return fmt.Errorf("invalid STORE_DRIVER: '%s' (must be 'mysql' or 'memory')", c.Store.Driver)
	}
	if c.IsProd() {
		if c.Store.Driver == "memory" {
			return fmt.Errorf("STORE_DRIVER=memory is not allowed in prod")
		}
		if c.S3.Bucket == "" || c.S3.Region == "" {
			return fmt.Errorf("S3_BUCKET and S3_REGION are required in prod")
		}
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("PROD_JWT_SECRET must be set in prod")
		}
	}
	return nil
}

// modePrefix returns the env prefix for mode specific settings
func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "goat_system"),
	}
}

const defaultJWTSecret = "default_secret"

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", defaultJWTSecret),
		AccessTokenMins: getEnvInt("ACCESS_TOKEN_MINUTES", 7*24*60),
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := modePrefix(mode)

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadS3Config() S3Config {
	return S3Config{
		Bucket:          getEnv("S3_BUCKET", ""),
		Region:          getEnv("S3_REGION", getEnv("AWS_REGION", "")),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", getEnv("AWS_ACCESS_KEY_ID", "")),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", getEnv("AWS_SECRET_ACCESS_KEY", "")),
		BaseEndpoint:    getEnv("S3_BASE_ENDPOINT", ""),
		PresignTTL:      getEnvDuration("S3_PRESIGN_TTL", time.Hour),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		URL:          getEnv("REDIS_URL", ""),
		PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
		MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		CacheTTL:     getEnvDuration("REFERENCE_CACHE_TTL", 30*time.Minute),
	}
}

func loadCronConfig() CronConfig {
	return CronConfig{
		ReferenceRefresh: getEnv("CRON_REFERENCE_REFRESH", "@every 15m"),
		FilePurge:        getEnv("CRON_FILE_PURGE", "30 3 * * *"),
		FileRetention:    getEnvDuration("FILE_RETENTION", 30*24*time.Hour),
	}
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{
		MaxFileSize: int64(getEnvInt("UPLOAD_MAX_FILE_MB", 10)) << 20,
		MaxFiles:    getEnvInt("UPLOAD_MAX_FILES", 10),
	}
}

func loadSeedConfig() SeedConfig {
	return SeedConfig{
		AdminNationalID: getEnv("SEED_ADMIN_NIC", ""),
		AdminEmail:      getEnv("SEED_ADMIN_EMAIL", ""),
		AdminPassword:   getEnv("SEED_ADMIN_PASSWORD", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return d
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://goat.gov.pk"
	}
	return origins
}
