package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	JWTSecret          string
	RateLimit          string // ulule formatted rate, e.g. "100-M"
	CORSAllowedOrigins []string

	// EncryptionKey is the 64 hex character AES-256 key for protected columns.
	EncryptionKey   string
	RotationWorkers int

	JournalNumberPrefix    string
	JournalDefaultPageSize int
	JournalMaxPageSize     int
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("ENCRYPTION_KEY", "")
	v.SetDefault("ROTATION_WORKERS", 4)
	v.SetDefault("JOURNAL_NUMBER_PREFIX", "DIARIO")
	v.SetDefault("JOURNAL_DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("JOURNAL_MAX_PAGE_SIZE", 100)
}

// NewViper returns a viper instance reading the environment, after an
// optional .env file has been loaded into it.
func NewViper() *viper.Viper {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	return FromViper(NewViper())
}

// FromViper builds a Config from v and checks the values that have no safe fallback.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:            v.GetString("PGSQL_URL"),
		Port:                   v.GetString("PORT"),
		IsProduction:           v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:          v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:         v.GetString("MIGRATIONS_PATH"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		RateLimit:              v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		EncryptionKey:          v.GetString("ENCRYPTION_KEY"),
		RotationWorkers:        v.GetInt("ROTATION_WORKERS"),
		JournalNumberPrefix:    strings.ToUpper(strings.TrimSpace(v.GetString("JOURNAL_NUMBER_PREFIX"))),
		JournalDefaultPageSize: v.GetInt("JOURNAL_DEFAULT_PAGE_SIZE"),
		JournalMaxPageSize:     v.GetInt("JOURNAL_MAX_PAGE_SIZE"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JournalNumberPrefix == "" {
		return nil, fmt.Errorf("JOURNAL_NUMBER_PREFIX must not be empty")
	}
	if cfg.JournalDefaultPageSize <= 0 || cfg.JournalMaxPageSize < cfg.JournalDefaultPageSize {
		return nil, fmt.Errorf("invalid journal page sizes: default %d, max %d", cfg.JournalDefaultPageSize, cfg.JournalMaxPageSize)
	}
	if cfg.RotationWorkers <= 0 {
		cfg.RotationWorkers = 1
	}
	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
