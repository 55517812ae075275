package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"hwbot/internal/notifier"
	"hwbot/internal/practicum"
	logx "hwbot/pkg/logx"
)

type response struct {
	raw any
	err error
}

type scriptedAPI struct {
	responses []response
	since     []int64
}

func (s *scriptedAPI) Fetch(ctx context.Context, since int64) (any, error) {
	s.since = append(s.since, since)
	i := len(s.since) - 1
	if i >= len(s.responses) {
		return nil, errors.New("script exhausted")
	}
	return s.responses[i].raw, s.responses[i].err
}

type recorder struct {
	sent []string
	err  error
}

func (r *recorder) Send(ctx context.Context, text string) error {
	if r.err != nil {
		return &notifier.DeliveryError{Err: r.err}
	}
	r.sent = append(r.sent, text)
	return nil
}

type harness struct {
	loop  *Loop
	api   *scriptedAPI
	out   *recorder
	logs  *bytes.Buffer
	waits []time.Duration
	hooks int
	clock time.Time
}

var base = time.Unix(1_700_000_000, 0)

func newHarness(cfg Config, responses ...response) (*harness, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{
		api:   &scriptedAPI{responses: responses},
		out:   &recorder{},
		logs:  &bytes.Buffer{},
		clock: base,
	}
	h.loop = New(cfg, h.api, h.out, logx.NewWriter(h.logs, "trace"), WithCycleHook(func() { h.hooks++ }))
	h.loop.now = func() time.Time { return h.clock }
	h.loop.wait = func(ctx context.Context, d time.Duration) error {
		h.waits = append(h.waits, d)
		h.clock = h.clock.Add(d)
		if len(h.waits) >= len(responses) {
			cancel()
			return ctx.Err()
		}
		return nil
	}
	return h, ctx
}

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func (h *harness) errorLogs(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(h.logs.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("log line %q: %v", line, err)
		}
		if m["level"] == "error" {
			out = append(out, m)
		}
	}
	return out
}

func TestScenarioEmptyHomeworks(t *testing.T) {
	h, ctx := newHarness(Config{}, response{raw: decode(t, `{"homeworks": []}`)})
	if err := h.loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.out.sent) != 1 || h.out.sent[0] != "Статус домашек не обновлялся" {
		t.Fatalf("sent = %q", h.out.sent)
	}
	if h.loop.cursor != base.Unix() {
		t.Fatalf("cursor = %d, want %d", h.loop.cursor, base.Unix())
	}
}

func TestScenarioApproved(t *testing.T) {
	h, ctx := newHarness(Config{}, response{raw: decode(t, `{"homeworks": [{"homework_name": "hw1", "status": "approved"}]}`)})
	if err := h.loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := `Изменился статус проверки работы "hw1". Работа проверена: ревьюеру всё понравилось. Ура!`
	if len(h.out.sent) != 1 || h.out.sent[0] != want {
		t.Fatalf("sent = %q, want %q", h.out.sent, want)
	}
}

func TestScenarioUnknownStatus(t *testing.T) {
	h, ctx := newHarness(Config{},
		response{raw: decode(t, `{"homeworks": [{"homework_name": "hw2", "status": "unknown_code"}]}`)},
		response{raw: decode(t, `{"homeworks": []}`)},
	)
	if err := h.loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// First cycle sends nothing; the loop continues to the second one.
	if len(h.out.sent) != 1 || h.out.sent[0] != NoUpdateMessage {
		t.Fatalf("sent = %q", h.out.sent)
	}
	errs := h.errorLogs(t)
	if len(errs) != 1 || !strings.Contains(errs[0]["err"].(string), "unknown_code") || errs[0]["stage"] != "format" {
		t.Fatalf("error logs = %v", errs)
	}
	if h.loop.cursor != base.Add(DefaultInterval).Unix() {
		t.Fatalf("cursor did not advance: %d", h.loop.cursor)
	}
}

func TestMalformedResponsesDegradeToNoUpdate(t *testing.T) {
	h, ctx := newHarness(Config{},
		response{raw: decode(t, `{"current_date": 1}`)},
		response{raw: decode(t, `{"homeworks": {"homework_name": "hw1"}}`)},
		response{raw: decode(t, `["homeworks"]`)},
	)
	if err := h.loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.out.sent) != 3 {
		t.Fatalf("sent = %q, want three no-update messages", h.out.sent)
	}
	for _, s := range h.out.sent {
		if s != NoUpdateMessage {
			t.Fatalf("unexpected message %q", s)
		}
	}
	if n := len(h.errorLogs(t)); n != 3 {
		t.Fatalf("error logs = %d, want 3", n)
	}
}

func TestFetchErrorSkipsNotificationAndContinues(t *testing.T) {
	h, ctx := newHarness(Config{Interval: time.Minute},
		response{err: &practicum.UpstreamStatusError{StatusCode: 503}},
		response{raw: decode(t, `{"homeworks": [{"homework_name": "hw3", "status": "reviewing"}]}`)},
	)
	if err := h.loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.out.sent) != 1 || !strings.Contains(h.out.sent[0], "Работа взята на проверку ревьюером.") {
		t.Fatalf("sent = %q", h.out.sent)
	}
	// Cursor windows: start-interval, then start, then start+interval.
	want := []int64{base.Add(-time.Minute).Unix(), base.Unix()}
	if len(h.api.since) != 2 || h.api.since[0] != want[0] || h.api.since[1] != want[1] {
		t.Fatalf("since = %v, want %v", h.api.since, want)
	}
	if len(h.waits) != 2 || h.waits[0] != time.Minute {
		t.Fatalf("waits = %v", h.waits)
	}
	if h.hooks != 2 {
		t.Fatalf("cycle hook ran %d times, want 2", h.hooks)
	}
}

func TestFailFastStopsWithoutSleeping(t *testing.T) {
	cause := &practicum.TransportError{Err: errors.New("connection refused")}
	h, ctx := newHarness(Config{FailFast: true}, response{err: cause}, response{})
	err := h.loop.Run(ctx)
	if !errors.Is(err, cause) {
		t.Fatalf("Run = %v, want wrapped transport error", err)
	}
	if len(h.waits) != 0 {
		t.Fatalf("fatal cycle should not sleep, waits = %v", h.waits)
	}
	if len(h.out.sent) != 0 {
		t.Fatalf("no message expected, sent = %q", h.out.sent)
	}
	if h.loop.cursor != base.Unix() {
		t.Fatalf("cursor should still advance, got %d", h.loop.cursor)
	}
}

func TestDeliveryErrorIsNotFatal(t *testing.T) {
	h, ctx := newHarness(Config{},
		response{raw: decode(t, `{"homeworks": []}`)},
		response{raw: decode(t, `{"homeworks": []}`)},
	)
	h.out.err = errors.New("telegram unavailable")
	if err := h.loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.api.since) != 2 {
		t.Fatalf("loop stopped after delivery error, fetches = %d", len(h.api.since))
	}
	errs := h.errorLogs(t)
	if len(errs) != 2 || errs[0]["stage"] != "notify" {
		t.Fatalf("error logs = %v", errs)
	}
}

func TestOnlyFirstRecordIsReported(t *testing.T) {
	h, ctx := newHarness(Config{}, response{raw: decode(t, `{"homeworks": [
		{"homework_name": "new", "status": "rejected"},
		{"homework_name": "old", "status": "approved"}
	]}`)})
	if err := h.loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.out.sent) != 1 || !strings.Contains(h.out.sent[0], `"new"`) {
		t.Fatalf("sent = %q", h.out.sent)
	}
}

func TestSleepCtxCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepCtx(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("sleepCtx = %v, want context.Canceled", err)
	}
	if err := sleepCtx(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("sleepCtx = %v", err)
	}
}
