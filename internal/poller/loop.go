// Package poller runs the fetch, validate, format, notify cycle.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hwbot/internal/homework"
	logx "hwbot/pkg/logx"
)

const (
	// NoUpdateMessage is sent when a cycle finds nothing to report.
	NoUpdateMessage = "Статус домашек не обновлялся"

	DefaultInterval = 600 * time.Second
)

// Fetcher queries the status API for changes since a Unix timestamp.
type Fetcher interface {
	Fetch(ctx context.Context, since int64) (any, error)
}

// Notifier delivers one message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

type Config struct {
	Interval time.Duration
	// FailFast makes a failed status request stop the loop instead of
	// waiting for the next cycle.
	FailFast bool
}

type Option func(*Loop)

// WithCycleHook registers fn to run after every cycle, before the sleep.
func WithCycleHook(fn func()) Option { return func(l *Loop) { l.onCycle = fn } }

// Loop is strictly sequential; Run must not be called concurrently.
type Loop struct {
	cfg    Config
	api    Fetcher
	notify Notifier
	log    logx.Logger

	now     func() time.Time
	wait    func(ctx context.Context, d time.Duration) error
	onCycle func()

	// cursor is the lower bound (Unix seconds) of the next poll window.
	cursor int64
}

func New(cfg Config, api Fetcher, notify Notifier, log logx.Logger, opts ...Option) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	l := &Loop{
		cfg:    cfg,
		api:    api,
		notify: notify,
		log:    log,
		now:    time.Now,
		wait:   sleepCtx,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Run polls until ctx is cancelled. It returns nil on cancellation and an
// error only when FailFast is set and a status request fails.
func (l *Loop) Run(ctx context.Context) error {
	l.cursor = l.now().Add(-l.cfg.Interval).Unix()
	l.log.Info("polling started", logx.Duration("interval", l.cfg.Interval), logx.Bool("fail_fast", l.cfg.FailFast))

	for {
		err := l.cycle(ctx)
		if err == nil {
			continue
		}
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			l.log.Info("polling stopped")
			return nil
		}
		return err
	}
}

func (l *Loop) cycle(ctx context.Context) (err error) {
	fatal := false
	defer func() {
		l.cursor = l.now().Unix()
		if l.onCycle != nil {
			l.onCycle()
		}
		if fatal {
			return
		}
		if werr := l.wait(ctx, l.cfg.Interval); werr != nil && err == nil {
			err = werr
		}
	}()

	log := l.log.With(logx.Int64("cursor", l.cursor))

	raw, err := l.api.Fetch(ctx, l.cursor)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error("homework status request failed", logx.String("stage", "fetch"), logx.Err(err))
		if l.cfg.FailFast {
			fatal = true
			return fmt.Errorf("fetch homework statuses: %w", err)
		}
		return nil
	}

	entries, err := homework.Validate(raw)
	if err != nil || len(entries) == 0 {
		if err != nil {
			log.Error("unexpected status api response", logx.String("stage", "validate"), logx.Err(err))
		} else {
			log.Debug("no homework status changes")
		}
		l.deliver(ctx, log, NoUpdateMessage)
		return nil
	}
	if len(entries) > 1 {
		log.Debug("only the first homework record is reported", logx.Int("records", len(entries)))
	}

	msg, err := homework.Format(entries[0])
	if err != nil {
		log.Error("homework record rejected", logx.String("stage", "format"), logx.Err(err))
		return nil
	}
	l.deliver(ctx, log, msg)
	return nil
}

func (l *Loop) deliver(ctx context.Context, log logx.Logger, text string) {
	if err := l.notify.Send(ctx, text); err != nil {
		// Delivery failures are never reported to the chat itself.
		log.Error("notification skipped", logx.String("stage", "notify"), logx.Err(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
