package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort     string
	JWTSecret   string
	JWTTTLHours int
	// Database
	DBDriver     string
	DatabaseURI  string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	SQLitePath   string
	SeedMissions bool
	// Redis for ranking cache and token blacklist; empty host disables it
	RedisHost              string
	RedisPort              int
	RedisDB                int
	RedisPassword          string
	RankingCacheTTLSeconds int
	// HTTP
	RateLimitPerMinute int
	AllowedOrigins     []string
	MetricsEnabled     bool
	// Gin framework configuration
	GinMode string
	GinPath string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Background jobs
	ReconcileCron string
}

var cfg AppConfig
var loaded bool

// fileConfig mirrors config/config.json. Pointers distinguish "absent" from zero.
type fileConfig struct {
	App struct {
		AppPort            string   `json:"AppPort"`
		JWTSecret          string   `json:"JWTSecret"`
		JWTTTLHours        int      `json:"JWTTTLHours"`
		RateLimitPerMinute int      `json:"RateLimitPerMinute"`
		AllowedOrigins     []string `json:"AllowedOrigins"`
		MetricsEnabled     *bool    `json:"MetricsEnabled"`
	} `json:"app"`
	Database struct {
		Driver       string `json:"Driver"`
		DatabaseURI  string `json:"DatabaseURI"`
		DBHost       string `json:"DBHost"`
		DBPort       string `json:"DBPort"`
		DBUser       string `json:"DBUser"`
		DBPassword   string `json:"DBPassword"`
		DBName       string `json:"DBName"`
		SQLitePath   string `json:"SQLitePath"`
		SeedMissions *bool  `json:"SeedMissions"`
	} `json:"database"`
	Redis struct {
		RedisHost       string `json:"RedisHost"`
		RedisPort       int    `json:"RedisPort"`
		RedisDB         int    `json:"RedisDB"`
		RedisPassword   string `json:"RedisPassword"`
		RankingCacheTTL int    `json:"RankingCacheTTL"`
	} `json:"redis"`
	Log struct {
		Level      string `json:"Level"`
		Path       string `json:"Path"`
		GinMode    string `json:"GinMode"`
		GinPath    string `json:"GinPath"`
		MaxSizeMB  int    `json:"MaxSizeMB"`
		MaxBackups int    `json:"MaxBackups"`
		MaxAgeDays int    `json:"MaxAgeDays"`
		Compress   bool   `json:"Compress"`
	} `json:"log"`
	Jobs struct {
		ReconcileCron *string `json:"ReconcileCron"`
	} `json:"jobs"`
}

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: .env -> config/config.json -> defaults -> environment variable overrides
	_ = godotenv.Load()

	var next AppConfig
	next.SeedMissions = true
	next.MetricsEnabled = true
	next.ReconcileCron = "@daily"
	if err := loadJSONConfig(filepath.Join("config", "config.json"), &next); err != nil {
		log.Fatalf("invalid config/config.json: %v", err)
	}
	applyDefaults(&next)
	applyEnvOverrides(&next)

	if next.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	cfg = next
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Set replaces the cached configuration. Intended for tests and tooling that
// build an AppConfig without touching the environment.
func Set(c AppConfig) {
	applyDefaults(&c)
	cfg = c
	loaded = true
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads the grouped JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var fc fileConfig
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return err
	}

	out.AppPort = fc.App.AppPort
	out.JWTSecret = fc.App.JWTSecret
	out.JWTTTLHours = fc.App.JWTTTLHours
	out.RateLimitPerMinute = fc.App.RateLimitPerMinute
	if len(fc.App.AllowedOrigins) > 0 {
		out.AllowedOrigins = fc.App.AllowedOrigins
	}
	if fc.App.MetricsEnabled != nil {
		out.MetricsEnabled = *fc.App.MetricsEnabled
	}

	out.DBDriver = fc.Database.Driver
	out.DatabaseURI = fc.Database.DatabaseURI
	out.DBHost = fc.Database.DBHost
	out.DBPort = fc.Database.DBPort
	out.DBUser = fc.Database.DBUser
	out.DBPassword = fc.Database.DBPassword
	out.DBName = fc.Database.DBName
	out.SQLitePath = fc.Database.SQLitePath
	if fc.Database.SeedMissions != nil {
		out.SeedMissions = *fc.Database.SeedMissions
	}

	out.RedisHost = fc.Redis.RedisHost
	out.RedisPort = fc.Redis.RedisPort
	out.RedisDB = fc.Redis.RedisDB
	out.RedisPassword = fc.Redis.RedisPassword
	out.RankingCacheTTLSeconds = fc.Redis.RankingCacheTTL

	out.LogLevel = fc.Log.Level
	out.LogPath = fc.Log.Path
	out.GinMode = fc.Log.GinMode
	out.GinPath = fc.Log.GinPath
	out.LogMaxSizeMB = fc.Log.MaxSizeMB
	out.LogMaxBackups = fc.Log.MaxBackups
	out.LogMaxAgeDays = fc.Log.MaxAgeDays
	out.LogCompress = fc.Log.Compress

	if fc.Jobs.ReconcileCron != nil {
		out.ReconcileCron = *fc.Jobs.ReconcileCron
	}
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "3001"
	}
	if c.JWTTTLHours == 0 {
		c.JWTTTLHours = 30 * 24
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "missionboard"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "data/missionboard.db"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.RankingCacheTTLSeconds == 0 {
		c.RankingCacheTTLSeconds = 30
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", getEnv("PORT", "")); v != "" {
		c.AppPort = v
	}
	if v := getEnv("JWT_SECRET", ""); v != "" {
		c.JWTSecret = v
	}
	if v := getEnv("JWT_TTL_HOURS", ""); v != "" {
		c.JWTTTLHours = mustParseInt(v)
	}
	if v := getEnv("DB_DRIVER", ""); v != "" {
		c.DBDriver = strings.ToLower(v)
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("SQLITE_PATH", ""); v != "" {
		c.SQLitePath = v
	}
	if v := getEnv("SEED_MISSIONS", ""); v != "" {
		c.SeedMissions = v == "true"
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("RANKING_CACHE_TTL", ""); v != "" {
		c.RankingCacheTTLSeconds = mustParseInt(v)
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	if v := getEnv("METRICS_ENABLED", ""); v != "" {
		c.MetricsEnabled = v == "true"
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
	// "off" disables the job; an empty env var cannot be told apart from unset
	if v := getEnv("RECONCILE_CRON", ""); v != "" {
		if v == "off" {
			v = ""
		}
		c.ReconcileCron = v
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
