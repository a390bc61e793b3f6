package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir for the test, so Load sees no stray .env file.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "1414", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.MongoTimeout)
	assert.Equal(t, "auto", cfg.MongoTransactions)
	assert.Equal(t, 15*time.Minute, cfg.MigrationReportMaxAge)
	assert.Equal(t, 0.5, cfg.MigrationThreshold)
	assert.True(t, cfg.PreferRemote)
	assert.False(t, cfg.UsesMongo())
	assert.False(t, cfg.MailEnabled())
	assert.Empty(t, cfg.LocalOnly())
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("PREFER_REMOTE", "false")
	t.Setenv("LOCAL_ONLY_COLLECTIONS", "tasks, staff,,")
	t.Setenv("MIGRATION_THRESHOLD", "0.7")
	t.Setenv("MIGRATION_REPORT_MAX_AGE", "1h")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USERNAME", "kitchen@example.com")
	t.Setenv("ALERT_EMAIL", "manager@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.PreferRemote)
	assert.Equal(t, []string{"tasks", "staff"}, cfg.LocalOnly())
	assert.Equal(t, 0.7, cfg.MigrationThreshold)
	assert.Equal(t, time.Hour, cfg.MigrationReportMaxAge)
	assert.True(t, cfg.MailEnabled())
	assert.Equal(t, "kitchen@example.com", cfg.SMTP().From)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MONGO_DATABASE=dotenvdb\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("MONGO_DATABASE") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dotenvdb", cfg.MongoDatabase)
}

func TestSetupLoggingWritesFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "app.log")
	logger, closeLog, err := SetupLogging(&Config{LogFile: path, LogLevel: "debug"})
	require.NoError(t, err)
	logger.Debug("cache warmed", "collection", "menu")
	require.NoError(t, closeLog())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"cache warmed"`)
	assert.Contains(t, string(raw), `"collection":"menu"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestUseTransactionsExplicit(t *testing.T) {
	ctx := context.Background()
	// explicit settings never reach the server
	assert.True(t, UseTransactions(ctx, "true", nil, time.Second))
	assert.False(t, UseTransactions(ctx, " FALSE ", nil, time.Second))
}

func TestHelloReplySupportsTransactions(t *testing.T) {
	assert.True(t, helloReply{SetName: "rs0"}.supportsTransactions())
	assert.True(t, helloReply{Msg: "isdbgrid"}.supportsTransactions())
	assert.False(t, helloReply{}.supportsTransactions())
}
