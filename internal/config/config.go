// Package config assembles process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/alexanderramin/taskhelper/internal/knowledge"
	"github.com/alexanderramin/taskhelper/internal/llm"
	"github.com/joho/godotenv"
)

// ErrMissingDiscordToken indicates serve was started without a bot token.
var ErrMissingDiscordToken = errors.New("DISCORD_TOKEN is not set")

const defaultPort = 8000

// Config is the full process configuration.
type Config struct {
	DiscordToken string
	GuildID      string // empty registers commands globally
	Port         int

	LogLevel  string
	LogFormat string

	KnowledgeFile string
	KeywordsFile  string
	Contacts      knowledge.Contacts

	LLM llm.Config
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Port:      defaultPort,
		LogLevel:  "info",
		LogFormat: "text",
		Contacts:  knowledge.DefaultContacts(),
		LLM:       llm.DefaultConfig(),
	}
}

// LoadConfig reads configuration from environment variables, falling back to
// defaults for unset or invalid values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	cfg.DiscordToken = strings.TrimSpace(os.Getenv("DISCORD_TOKEN"))
	cfg.GuildID = strings.TrimSpace(os.Getenv("DISCORD_GUILD_ID"))

	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < 65536 {
			cfg.Port = n
		}
	}
	if v := os.Getenv("TASKHELPER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKHELPER_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	cfg.KnowledgeFile = os.Getenv("TASKHELPER_KNOWLEDGE_FILE")
	cfg.KeywordsFile = os.Getenv("TASKHELPER_KEYWORDS_FILE")

	if v := strings.TrimSpace(os.Getenv("TASKHELPER_SUPPORT_CHANNEL")); v != "" {
		cfg.Contacts.SupportChannel = mention("#", v)
	}
	if v := os.Getenv("TASKHELPER_MODERATORS"); v != "" {
		var mods []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				mods = append(mods, mention("@", part))
			}
		}
		if len(mods) > 0 {
			cfg.Contacts.Moderators = mods
		}
	}

	cfg.LLM = llm.LoadConfig()
	return cfg
}

// mention wraps a bare snowflake id as a chat mention; anything else is
// returned unchanged.
func mention(prefix, v string) string {
	if _, err := strconv.ParseUint(v, 10, 64); err == nil {
		return "<" + prefix + v + ">"
	}
	return v
}

// LoadDotEnv loads variables from path without overriding ones already set.
// With an empty path it tries ./.env and ignores its absence.
func LoadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// RequireDiscord checks the settings needed to connect the bot.
func (c Config) RequireDiscord() error {
	if c.DiscordToken == "" {
		return ErrMissingDiscordToken
	}
	return nil
}

// Addr is the liveness server listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
