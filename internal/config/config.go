package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	OpenAIKey   string `env:"OPENAI_API_KEY,required"`
	OpenAIBase  string `env:"OPENAI_API_BASE" envDefault:"https://api.openai.com/v1"`

	// Access control: empty lists allow everyone.
	AllowedUsernames []string `env:"ALLOWED_USERNAMES" envSeparator:","`
	AllowedChatIDs   []int64  `env:"ALLOWED_CHAT_IDS" envSeparator:","`

	// Dialog behavior
	NewDialogTimeout time.Duration `env:"NEW_DIALOG_TIMEOUT" envDefault:"10m"`
	EnableStreaming  bool          `env:"ENABLE_MESSAGE_STREAMING" envDefault:"true"`

	// Image generation
	NGeneratedImages int    `env:"N_GENERATED_IMAGES" envDefault:"4"`
	ImageSize        string `env:"IMAGE_SIZE" envDefault:"512x512"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Telegram operator logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// IsAllowed reports whether a user passes the access list.
// An empty list allows everyone.
func (c *Config) IsAllowed(username string, chatID int64) bool {
	if len(c.AllowedUsernames) == 0 && len(c.AllowedChatIDs) == 0 {
		return true
	}
	for _, u := range c.AllowedUsernames {
		if u != "" && u == username {
			return true
		}
	}
	for _, id := range c.AllowedChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
