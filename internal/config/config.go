package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file named by PECKORDER_ENV (or .env by default),
// then its .secret sidecar if present. Missing files are not an error;
// every setting below falls back to a default.
func Load() error {
	envFile := os.Getenv("PECKORDER_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func intEnv(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func floatEnv(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return def
	}
	return v
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func ServerPort() int {
	return intEnv("SERVER_PORT", 8080)
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func MigrationsPath() string {
	return stringEnv("MIGRATIONS_PATH", "migrations")
}

// OutcomeTablePath names a state-pair payoff file to load instead of the
// embedded table. Empty means embedded.
func OutcomeTablePath() string {
	return os.Getenv("OUTCOME_TABLE_PATH")
}

// APIKey is the shared bearer token for /v1 routes. Empty disables auth.
func APIKey() string {
	return os.Getenv("API_KEY")
}

// RateLimitRPS returns requests per second allowed per client IP.
func RateLimitRPS() float64 {
	if rps := floatEnv("RATE_LIMIT_RPS", 100); rps > 0 {
		return rps
	}
	return 100
}

func RateLimitBurst() int {
	if burst := intEnv("RATE_LIMIT_BURST", 20); burst > 0 {
		return burst
	}
	return 20
}

// LogLevel returns the log level (debug, info, warn, error).
func LogLevel() string {
	return stringEnv("LOG_LEVEL", "info")
}

// DefaultLearningRate applies to new learner profiles that omit one.
// Out-of-range values are passed through and rejected at agent creation.
func DefaultLearningRate() float64 {
	return floatEnv("DEFAULT_LEARNING_RATE", 0.1)
}

func DefaultConfidence() float64 {
	return floatEnv("DEFAULT_CONFIDENCE", 0.5)
}

func MaxGamesPerMatch() int {
	if n := intEnv("MAX_GAMES_PER_MATCH", 10000); n > 0 {
		return n
	}
	return 10000
}

func TrainerInterval() time.Duration {
	d, err := time.ParseDuration(os.Getenv("TRAINER_INTERVAL"))
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// TrainerGames is the number of games each learner plays per trainer run.
// Zero disables the background trainer.
func TrainerGames() int {
	if n := intEnv("TRAINER_GAMES", 0); n > 0 {
		return n
	}
	return 0
}

func TournamentConcurrency() int {
	if n := intEnv("TOURNAMENT_CONCURRENCY", 4); n > 0 {
		return n
	}
	return 4
}
