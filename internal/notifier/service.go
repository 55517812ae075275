package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"hwbot/internal/storage"
	kit "hwbot/internal/transport"
	logx "hwbot/pkg/logx"
)

var ErrNoTarget = errors.New("notifier target chat is not set")

// Service sends one message per call through a kit.Sender.
//
// It is safe for concurrent use.
type Service struct {
	log     logx.Logger
	sender  kit.Sender
	journal storage.Journal

	cfg     Config
	limiter *rate.Limiter

	hmu     sync.Mutex
	history []HistoryItem
}

func New(cfg Config, sender kit.Sender, log logx.Logger, journal storage.Journal) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 20
	}
	return &Service{
		log:     log,
		sender:  sender,
		journal: journal,
		cfg:     cfg,
		// Token bucket: burst = rate per sec.
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
	}
}

// Send delivers text to the configured chat. Any failure is returned as *DeliveryError.
func (s *Service) Send(ctx context.Context, text string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.cfg.Target.IsZero() {
		return &DeliveryError{Err: ErrNoTarget}
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return &DeliveryError{Err: err}
	}

	sctx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	start := time.Now()
	ref, err := s.sender.SendText(sctx, s.cfg.Target, text, &kit.SendOptions{DisablePreview: true})
	took := time.Since(start)

	s.record(ctx, text, took, err)

	if err != nil {
		s.log.Error("message delivery failed", logx.Err(err), logx.Duration("took", took))
		return &DeliveryError{Err: err}
	}
	s.log.Info("message sent", logx.Int("message_id", ref.MessageID), logx.Duration("took", took))
	return nil
}

func (s *Service) record(ctx context.Context, text string, took time.Duration, err error) {
	item := HistoryItem{At: time.Now(), Text: text}
	if err != nil {
		item.Err = err.Error()
	}

	s.hmu.Lock()
	s.history = append(s.history, item)
	if over := len(s.history) - s.cfg.HistorySize; over > 0 {
		s.history = append(s.history[:0:0], s.history[over:]...)
	}
	s.hmu.Unlock()

	if s.journal == nil {
		return
	}
	e := storage.DeliveryEntry{
		At:     item.At,
		ChatID: s.cfg.Target.ChatID,
		Chat:   s.cfg.Target.Username,
		Text:   text,
		OK:     err == nil,
		Error:  item.Err,
		TookMS: took.Milliseconds(),
	}
	// Journal errors never fail a delivery.
	if jerr := s.journal.AppendDelivery(context.WithoutCancel(ctx), e); jerr != nil {
		s.log.Warn("delivery journal append failed", logx.Err(jerr))
	}
}

// History returns a copy of recent delivery attempts, oldest first.
func (s *Service) History() []HistoryItem {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	return append([]HistoryItem(nil), s.history...)
}
