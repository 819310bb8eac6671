package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LINKEDIN_EMAIL", "user@example.com")
	t.Setenv("LINKEDIN_PASSWORD", "secret")
	t.Setenv("NOTION_API_KEY", "ntn_test")
	t.Setenv("NOTION_DATABASE_ID", "db123")
}

func TestNewDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := New(Opts{})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.False(t, cfg.App.Verbose)

	assert.Equal(t, "user@example.com", cfg.LinkedIn.Email)
	assert.True(t, cfg.LinkedIn.Headless)

	assert.Equal(t, 60, cfg.Scraper.MaxScrolls)
	assert.Equal(t, 3, cfg.Scraper.MaxIdleRounds)
	assert.Equal(t, 1500*time.Millisecond, cfg.Scraper.ScrollPause)
	assert.Equal(t, 45*time.Second, cfg.Scraper.NavTimeout)
	assert.Equal(t, 30*time.Second, cfg.Scraper.CheckpointWait)

	assert.Equal(t, "Name", cfg.NotionProperties.Title)
	assert.Equal(t, "LinkedIn URN", cfg.NotionProperties.URN)
	assert.Equal(t, "exported_posts", cfg.Export.Dir)
}

func TestNewMissingRequired(t *testing.T) {
	t.Setenv("LINKEDIN_EMAIL", "user@example.com")
	t.Setenv("LINKEDIN_PASSWORD", "secret")
	// t.Setenv registers the cleanup; cleanenv only treats an unset variable as missing.
	t.Setenv("NOTION_API_KEY", "")
	os.Unsetenv("NOTION_API_KEY")
	t.Setenv("NOTION_DATABASE_ID", "db123")

	_, err := New(Opts{})
	require.Error(t, err)
}

func TestNewOptOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HEADLESS", "true")

	headless := false
	cfg, err := New(Opts{Verbose: true, Headless: &headless})
	require.NoError(t, err)

	assert.True(t, cfg.App.Verbose, "--verbose overrides the environment")
	assert.False(t, cfg.LinkedIn.Headless, "--no-headless overrides the environment")
}

func TestNewEnvFile(t *testing.T) {
	setRequiredEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("NOTION_TITLE_PROPERTY=Custom Title\nEXPORT_DIR=out\n"), 0o644))

	// godotenv mutates the process environment; restore after the test.
	t.Setenv("NOTION_TITLE_PROPERTY", "")
	t.Setenv("EXPORT_DIR", "")
	os.Unsetenv("NOTION_TITLE_PROPERTY")
	os.Unsetenv("EXPORT_DIR")

	cfg, err := New(Opts{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "Custom Title", cfg.NotionProperties.Title)
	assert.Equal(t, "out", cfg.Export.Dir)
}

func TestNewEnvFileMissing(t *testing.T) {
	setRequiredEnv(t)

	_, err := New(Opts{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	require.Error(t, err)
}

func TestArchiveEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.ArchiveEnabled())

	cfg.Postgres.Host = "localhost"
	assert.True(t, cfg.ArchiveEnabled())
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Postgres.Host = "localhost"
	cfg.Postgres.Port = 5432
	cfg.Postgres.User = "app"
	cfg.Postgres.Pass = "pw"
	cfg.Postgres.Name = "posts"
	cfg.Postgres.SslMode = "disable"

	assert.Equal(t, "dbname=posts user=app password=pw host=localhost port=5432 sslmode=disable", cfg.GetDSN())
}
