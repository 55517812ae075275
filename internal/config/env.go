package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

// Credentials are read from the environment only. Never log them.
type Credentials struct {
	PracticumToken string `envconfig:"PRACTICUM_TOKEN"`
	TelegramToken  string `envconfig:"TELEGRAM_TOKEN"`
	TelegramChatID string `envconfig:"TELEGRAM_CHAT_ID"`
}

// LoadCredentials loads the optional dotenv files into the process
// environment (existing variables win) and then reads the credentials.
// Missing files are ignored.
func LoadCredentials(envFiles ...string) (Credentials, error) {
	for _, f := range envFiles {
		if strings.TrimSpace(f) == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, err
		}
	}
	var c Credentials
	if err := envconfig.Process("", &c); err != nil {
		return Credentials{}, err
	}
	c.PracticumToken = strings.TrimSpace(c.PracticumToken)
	c.TelegramToken = strings.TrimSpace(c.TelegramToken)
	c.TelegramChatID = strings.TrimSpace(c.TelegramChatID)
	return c, nil
}

// Missing returns the names of unset credentials, in a stable order.
func (c Credentials) Missing() []string {
	var out []string
	if c.PracticumToken == "" {
		out = append(out, EnvPracticumToken)
	}
	if c.TelegramToken == "" {
		out = append(out, EnvTelegramToken)
	}
	if c.TelegramChatID == "" {
		out = append(out, EnvTelegramChatID)
	}
	return out
}
