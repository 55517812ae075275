package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hwbot/internal/config"
	"hwbot/internal/notifier"
	"hwbot/internal/poller"
	"hwbot/internal/practicum"
	"hwbot/internal/storage"
	kit "hwbot/internal/transport"
	telegram "hwbot/internal/transport/telegram/adapter"
	logx "hwbot/pkg/logx"
)

func mapLoggingConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func mapPracticumConfig(cfg *config.Config, token string) (practicum.Config, error) {
	timeout, err := config.ParseDurationOrDefault("practicum.request_timeout", cfg.Practicum.RequestTimeout, practicum.DefaultTimeout)
	if err != nil {
		return practicum.Config{}, err
	}
	return practicum.Config{Endpoint: cfg.Practicum.Endpoint, Token: token, Timeout: timeout}, nil
}

func mapTelegramConfig(cfg *config.Config, token string) (telegram.Config, error) {
	timeout, err := config.ParseDurationOrDefault("telegram.request_timeout", cfg.Telegram.RequestTimeout, 10*time.Second)
	if err != nil {
		return telegram.Config{}, err
	}
	return telegram.Config{Token: token, URL: cfg.Telegram.APIURL, RequestTimeout: timeout}, nil
}

func mapNotifierConfig(cfg *config.Config, target kit.ChatTarget, tg telegram.Config) notifier.Config {
	return notifier.Config{
		Target:     target,
		RatePerSec: cfg.Telegram.RatePerSec,
		// Leave room for a message split into a few chunks.
		SendTimeout: 3 * tg.RequestTimeout,
	}
}

func mapPollConfig(cfg *config.Config) (poller.Config, error) {
	interval, err := config.ParseDurationOrDefault("poll.interval", cfg.Poll.Interval, poller.DefaultInterval)
	if err != nil {
		return poller.Config{}, err
	}
	return poller.Config{Interval: interval, FailFast: cfg.Poll.FailFast}, nil
}

func mapJournalConfig(cfg *config.Config) (storage.Config, error) {
	if cfg.Journal == nil {
		return storage.Config{}, nil
	}
	busy, err := config.ParseDurationField("journal.busy_timeout", cfg.Journal.BusyTimeout)
	if err != nil {
		return storage.Config{}, err
	}
	return storage.Config{Driver: cfg.Journal.Driver, Path: cfg.Journal.Path, BusyTimeout: busy}, nil
}

// parseChatTarget accepts a numeric chat id or a public "@username".
func parseChatTarget(raw string) (kit.ChatTarget, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "@") && len(s) > 1 {
		return kit.ChatTarget{Username: s}, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id == 0 {
		return kit.ChatTarget{}, fmt.Errorf("%s: want a numeric chat id or @username", config.EnvTelegramChatID)
	}
	return kit.ChatTarget{ChatID: id}, nil
}
