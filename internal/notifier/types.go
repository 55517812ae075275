package notifier

import (
	"fmt"
	"time"

	kit "hwbot/internal/transport"
)

// Config controls delivery.
type Config struct {
	Target      kit.ChatTarget
	RatePerSec  int
	SendTimeout time.Duration
	HistorySize int
}

type HistoryItem struct {
	At   time.Time
	Text string
	Err  string
}

// DeliveryError wraps a messaging-channel failure.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string { return fmt.Sprintf("message delivery failed: %v", e.Err) }
func (e *DeliveryError) Unwrap() error { return e.Err }
