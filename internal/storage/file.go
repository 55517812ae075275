package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	logx "hwbot/pkg/logx"
)

// fileJournal appends JSON Lines to <prefix>.deliveries.jsonl.
type fileJournal struct {
	log logx.Logger

	mu sync.Mutex
	f  *os.File
}

func openFile(cfg Config, log logx.Logger) (Journal, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("journal.path is required for file driver")
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	prefix := filepath.Join(dir, base)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(prefix+".deliveries.jsonl", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	log.Debug("file journal opened", logx.String("path", f.Name()))
	return &fileJournal{log: log, f: f}, nil
}

func (j *fileJournal) AppendDelivery(ctx context.Context, e DeliveryEntry) error {
	_ = ctx
	if e.At.IsZero() {
		e.At = time.Now()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.f == nil {
		return ErrClosed
	}
	return json.NewEncoder(j.f).Encode(e)
}

func (j *fileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.f == nil {
		return nil
	}
	err := j.f.Close()
	j.f = nil
	return err
}
