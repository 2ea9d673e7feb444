package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")

	_, err := Load()
	assert.ErrorContains(t, err, "BOT_TOKEN")
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadAdminIDs(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")
	t.Setenv("ADMIN_IDS", "100, 200,300")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsAdmin(100))
	assert.True(t, cfg.IsAdmin(200))
	assert.True(t, cfg.IsAdmin(300))
	assert.False(t, cfg.IsAdmin(400))
}

func TestLoadRejectsBadAdminID(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")
	t.Setenv("ADMIN_IDS", "100,abc")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid admin id")
}

func TestLoadDefaultPIDFile(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")
	t.Setenv("PID_FILE", "")
	t.Setenv("ADMIN_IDS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bot.pid", cfg.PIDFile)
}

func TestIsAllowedFormat(t *testing.T) {
	assert.True(t, IsAllowedFormat("report.pdf"))
	assert.True(t, IsAllowedFormat("REPORT.DOCX"))
	assert.True(t, IsAllowedFormat("summary.xlsx"))
	assert.False(t, IsAllowedFormat("archive.zip"))
	assert.False(t, IsAllowedFormat("noextension"))
}

func TestIsAllowedSize(t *testing.T) {
	assert.True(t, IsAllowedSize(1024))
	assert.True(t, IsAllowedSize(MaxFileSize))
	assert.False(t, IsAllowedSize(MaxFileSize+1))
	assert.False(t, IsAllowedSize(0))
}
