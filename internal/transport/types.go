package transport

import "context"

// ChatTarget addresses one chat. ChatID wins over Username when both are set.
type ChatTarget struct {
	ChatID   int64
	ThreadID int    // telegram forum topic thread id (0 if none)
	Username string // public channel/user name, e.g. "@homework_updates"
}

func (t ChatTarget) IsZero() bool { return t.ChatID == 0 && t.Username == "" }

type MessageRef struct {
	ChatID    int64
	ThreadID  int
	MessageID int
}

type SendOptions struct {
	ParseMode      string
	DisablePreview bool
}

// Sender is the outbound side of a messaging platform.
type Sender interface {
	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
}
