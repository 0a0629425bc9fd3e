package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// Word lists (per-language fallback sets)
	WordsENPath     string
	WordsVIPath     string
	DefaultLanguage string

	// Game settings
	TurnTimeout time.Duration

	// Point economy
	PointsCorrect      int
	PointsLongWord     int
	PointsAdvancedWord int
	PointsWrong        int
	PointsTimeout      int
	PointsFastReply    int
	PointsMediumReply  int
	PointsSlowReply    int

	// Word thresholds
	MinWordLengthEN       int
	LongWordThreshold     int
	AdvancedWordThreshold int

	// Powerups
	HintCost int
	PassCost int

	// Dictionary service
	UseDictionaryAPI bool
	DictionaryAPIURL string
	APITimeout       time.Duration
	CacheSize        int

	// Admin API
	AdminTokenSecret string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./wordchain.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		WordsENPath:     getEnv("WORDS_EN_PATH", "./data/words_en.txt"),
		WordsVIPath:     getEnv("WORDS_VI_PATH", "./data/words_vi.txt"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "vi"),

		TurnTimeout: getEnvDuration("TURN_TIMEOUT", 45*time.Second),

		PointsCorrect:      getEnvInt("POINTS_CORRECT", 1),
		PointsLongWord:     getEnvInt("POINTS_LONG_WORD", 5),
		PointsAdvancedWord: getEnvInt("POINTS_ADVANCED_WORD", 5),
		PointsWrong:        getEnvInt("POINTS_WRONG", -2),
		PointsTimeout:      getEnvInt("POINTS_TIMEOUT", getEnvInt("POINTS_WRONG", -2)),
		PointsFastReply:    getEnvInt("POINTS_FAST_REPLY", 3),
		PointsMediumReply:  getEnvInt("POINTS_MEDIUM_REPLY", 2),
		PointsSlowReply:    getEnvInt("POINTS_SLOW_REPLY", 1),

		MinWordLengthEN:       getEnvInt("MIN_WORD_LENGTH_EN", 3),
		LongWordThreshold:     getEnvInt("LONG_WORD_THRESHOLD", 7),
		AdvancedWordThreshold: getEnvInt("ADVANCED_WORD_THRESHOLD", 10),

		HintCost: getEnvInt("HINT_COST", 10),
		PassCost: getEnvInt("PASS_COST", 20),

		UseDictionaryAPI: getEnvBool("USE_DICTIONARY_API", true),
		DictionaryAPIURL: getEnv("DICTIONARY_API_URL", "https://api.dictionaryapi.dev/api/v2/entries"),
		APITimeout:       getEnvDuration("API_TIMEOUT", 5*time.Second),
		CacheSize:        getEnvInt("CACHE_SIZE", 1000),

		AdminTokenSecret: getEnv("ADMIN_TOKEN_SECRET", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvBool reads a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid value for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}

// getEnvDuration reads a duration ("45s", "2m") or bare seconds ("45")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid value for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return d
}
