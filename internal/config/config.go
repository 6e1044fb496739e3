package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		Path string
	}
	OpenAI struct {
		APIKey string
		Model  string
	}
	Telegram struct {
		Token   string
		ChatID  int64
		UserUID string
	}
}

func Load() (*Config, error) {
	cfg := &Config{}
	cfg.Server.Port = getEnv("PORT", "8080")
	cfg.Database.Path = getEnv("DB_PATH", "/data/reflecto.db")

	cfg.OpenAI.APIKey = getEnv("OPENAI_API_KEY", "")
	cfg.OpenAI.Model = getEnv("OPENAI_MODEL", "gpt-4o-mini")
	if cfg.OpenAI.APIKey == "" {
		log.Println("⚠️ OPENAI_API_KEY not set, entries will be stamped with neutral defaults")
	}

	// Telegram digest bot is optional: token, chat id and user must all be set.
	cfg.Telegram.Token = getEnv("TG_TOKEN", "")
	cfg.Telegram.UserUID = getEnv("REFLECTO_USER", "")
	chatIDStr := getEnv("TG_CHAT_ID", "")
	if cfg.Telegram.Token != "" {
		if chatIDStr == "" {
			return nil, fmt.Errorf("TG_TOKEN is set but TG_CHAT_ID is missing")
		}
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TG_CHAT_ID: %v", err)
		}
		cfg.Telegram.ChatID = chatID
	}

	log.Printf("✅ Configuration loaded: port=%s, db=%s", cfg.Server.Port, cfg.Database.Path)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
