// Package config loads bot settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Attachment limits for operator uploads and recipient responses.
const (
	MaxFileSize = 20 * 1024 * 1024 // 20MB, the Bot API download limit
)

// AllowedFormats lists the document extensions accepted as task
// attachments and response files.
var AllowedFormats = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".txt"}

type Config struct {
	BotToken    string
	DatabaseURL string
	PIDFile     string
	adminIDs    map[int64]bool
}

// Load reads configuration from the environment. BOT_TOKEN and
// DATABASE_URL are required; ADMIN_IDS is a comma-separated list of
// Telegram user ids allowed to run operator commands.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		PIDFile:     os.Getenv("PID_FILE"),
		adminIDs:    make(map[int64]bool),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.PIDFile == "" {
		cfg.PIDFile = "bot.pid"
	}

	for _, raw := range strings.Split(os.Getenv("ADMIN_IDS"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id %q: %w", raw, err)
		}
		cfg.adminIDs[id] = true
	}

	return cfg, nil
}

// IsAdmin reports whether the user may run operator commands.
func (c *Config) IsAdmin(userID int64) bool {
	return c.adminIDs[userID]
}

// IsAllowedFormat reports whether the file name has an accepted
// document extension.
func IsAllowedFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedFormats {
		if ext == allowed {
			return true
		}
	}
	return false
}

// IsAllowedSize reports whether the file fits the upload limit.
func IsAllowedSize(size int) bool {
	return size > 0 && size <= MaxFileSize
}
