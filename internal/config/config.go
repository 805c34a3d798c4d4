package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server         ServerConfig
	Log            LogConfig
	Database       DatabaseConfig
	Qdrant         QdrantConfig
	Gemini         GeminiConfig
	Redis          RedisConfig
	Index          IndexConfig
	Skills         SkillsConfig
	Recommendation RecommendationConfig

	// EnvFileLoaded reports whether a .env file was found and applied.
	EnvFileLoaded bool
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey         string
	EmbeddingModel string
	Dimension      int
	MaxRetries     int
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	EmbeddingTTL time.Duration
}

// IndexStore values accepted by INDEX_STORE.
const (
	IndexStoreFile   = "file"
	IndexStoreQdrant = "qdrant"
)

type IndexConfig struct {
	Store            string
	BlobPath         string
	BuildConcurrency int
	RefreshInterval  time.Duration
}

type SkillsConfig struct {
	DictionaryPath string
}

type RecommendationConfig struct {
	DefaultTopN int
	MaxTopN     int
}

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"https://dev.humanwrk.com",
	"https://musquaretech.humanwrk.com",
	"https://srcits.humanwrk.com",
	"https://scaleorange.humanwrk.com",
	"https://humanwrk.com",
}

func Load() *Config {
	envLoaded := godotenv.Load() == nil

	return &Config{
		EnvFileLoaded: envLoaded,
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            getEnv("ENV", "development"),
			AllowedOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", defaultAllowedOrigins),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", "30s"),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", "60s"),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "humanwrk"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "job_index"),
		},
		Gemini: GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			EmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			Dimension:      getEnvAsInt("EMBEDDING_DIMENSION", 384),
			MaxRetries:     getEnvAsInt("GEMINI_MAX_RETRIES", 3),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			EmbeddingTTL: getEnvAsDuration("REDIS_EMBEDDING_TTL", "24h"),
		},
		Index: IndexConfig{
			Store:            strings.ToLower(getEnv("INDEX_STORE", IndexStoreFile)),
			BlobPath:         getEnv("INDEX_BLOB_PATH", "./data/job_index.gob"),
			BuildConcurrency: getEnvAsInt("INDEX_BUILD_CONCURRENCY", 4),
			RefreshInterval:  getEnvAsDuration("INDEX_REFRESH_INTERVAL", "0s"),
		},
		Skills: SkillsConfig{
			DictionaryPath: getEnv("SKILLS_CSV_PATH", "./skills.csv"),
		},
		Recommendation: RecommendationConfig{
			DefaultTopN: getEnvAsInt("DEFAULT_TOP_N", 5),
			MaxTopN:     getEnvAsInt("MAX_TOP_N", 100),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
