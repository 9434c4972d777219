package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries everything the gateway reads from the environment.
// Provider credentials have no defaults: a variant whose credentials are
// absent is simply not mounted.
type Config struct {
	Port string

	SumUpAPIKey     string
	SumUpPayToEmail string

	MollieAPIKey string

	TelegramBotToken string
	TelegramChatID   int64
}

func FromEnv() (Config, error) {
	var c Config

	c.Port = strings.TrimSpace(os.Getenv("PORT"))
	if c.Port == "" {
		c.Port = "8080"
	}

	c.SumUpAPIKey = strings.TrimSpace(os.Getenv("SUMUP_API_KEY"))
	c.SumUpPayToEmail = strings.TrimSpace(os.Getenv("SUMUP_PAY_TO_EMAIL"))
	if c.SumUpAPIKey != "" && c.SumUpPayToEmail == "" {
		return c, fmt.Errorf("SUMUP_PAY_TO_EMAIL is empty")
	}

	c.MollieAPIKey = strings.TrimSpace(os.Getenv("MOLLIE_API_KEY"))

	c.TelegramBotToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))

	rawChatID := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	if rawChatID != "" {
		chatID, err := strconv.ParseInt(rawChatID, 10, 64)
		if err != nil {
			return c, fmt.Errorf("TELEGRAM_CHAT_ID is not numeric: %s", err)
		}
		c.TelegramChatID = chatID
	}
	if c.TelegramBotToken != "" && c.TelegramChatID == 0 {
		return c, fmt.Errorf("TELEGRAM_CHAT_ID is empty")
	}

	return c, nil
}

func (c Config) SumUpEnabled() bool {
	return c.SumUpAPIKey != ""
}

func (c Config) MollieEnabled() bool {
	return c.MollieAPIKey != ""
}

func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}
