package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "RATE_LIMIT_RPS", "DEFAULT_LEARNING_RATE", "TRAINER_INTERVAL",
		"TRAINER_GAMES", "TOURNAMENT_CONCURRENCY", "MAX_GAMES_PER_MATCH", "API_KEY",
	} {
		t.Setenv(key, "")
	}

	assert.Equal(t, ":8080", ServerAddr())
	assert.Equal(t, 100.0, RateLimitRPS())
	assert.Equal(t, 0.1, DefaultLearningRate())
	assert.Equal(t, time.Hour, TrainerInterval())
	assert.Zero(t, TrainerGames())
	assert.Equal(t, 4, TournamentConcurrency())
	assert.Equal(t, 10000, MaxGamesPerMatch())
	assert.Empty(t, APIKey())
}

func TestOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("RATE_LIMIT_BURST", "-3")
	t.Setenv("DEFAULT_CONFIDENCE", "0.8")
	t.Setenv("TRAINER_INTERVAL", "90s")
	t.Setenv("TRAINER_GAMES", "25")

	assert.Equal(t, ":9000", ServerAddr())
	assert.Equal(t, 20, RateLimitBurst())
	assert.Equal(t, 0.8, DefaultConfidence())
	assert.Equal(t, 90*time.Second, TrainerInterval())
	assert.Equal(t, 25, TrainerGames())
}

func TestLoadReadsEnvFileAndSecret(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("MIGRATIONS_PATH=/srv/migrations\n"), 0o600))
	require.NoError(t, os.WriteFile(envFile+".secret", []byte("API_KEY=s3cret\n"), 0o600))

	t.Setenv("PECKORDER_ENV", envFile)
	// godotenv never overrides variables already set; Setenv registers cleanup.
	t.Setenv("MIGRATIONS_PATH", "")
	t.Setenv("API_KEY", "")
	os.Unsetenv("MIGRATIONS_PATH")
	os.Unsetenv("API_KEY")

	require.NoError(t, Load())
	assert.Equal(t, "/srv/migrations", MigrationsPath())
	assert.Equal(t, "s3cret", APIKey())
}
