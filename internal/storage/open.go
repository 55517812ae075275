package storage

import (
	"context"
	"errors"
	"strings"

	logx "hwbot/pkg/logx"
)

// Journal is the append-only persistence API used by the notifier.
type Journal interface {
	AppendDelivery(ctx context.Context, e DeliveryEntry) error
	Close() error
}

// Open initializes the configured journal.
// It returns (nil, nil) if the journal is disabled.
func Open(cfg Config, log logx.Logger) (Journal, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown journal driver: " + driver)
	}
}
