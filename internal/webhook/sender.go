package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const defaultUserAgent = "settler-webhooks/1.0"

// SendResult classifies one delivery attempt. Retriable failures go
// back on the queue, non-retriable ones fail the delivery immediately.
type SendResult struct {
	Success      bool
	Retriable    bool
	ResponseCode *int
	Error        string
}

type Sender struct {
	httpClient *http.Client
	checker    *URLChecker
	logger     *slog.Logger
	userAgent  string
	now        func() time.Time
}

func NewSender(logger *slog.Logger, checker *URLChecker, timeout time.Duration, opts ...func(*Sender)) *Sender {
	s := &Sender{
		httpClient: &http.Client{Timeout: timeout},
		checker:    checker,
		logger:     logger.With(slog.String("module", "webhook-sender")),
		userAgent:  defaultUserAgent,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func WithHTTPClient(client *http.Client) func(*Sender) {
	return func(s *Sender) {
		s.httpClient = client
	}
}

func WithSenderNow(nowFunc func() time.Time) func(*Sender) {
	return func(s *Sender) {
		s.now = nowFunc
	}
}

// Send posts the payload to the endpoint, signed with the webhook
// secret. The URL gate runs on every attempt so an endpoint whose DNS
// now points inside the network is refused even if it passed at
// registration time.
func (s *Sender) Send(ctx context.Context, url string, secret []byte, payload []byte) SendResult {
	err := s.checker.Check(ctx, url)
	if err != nil {
		return SendResult{Retriable: false, Error: err.Error()}
	}

	timestamp := s.now().Unix()
	signature := Sign(secret, timestamp, payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return SendResult{Retriable: false, Error: err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("X-Webhook-Timestamp", strconv.FormatInt(timestamp, 10))
	req.Header.Set("X-Webhook-Signature", signature)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("delivery attempt failed", slog.String("url", url), slog.String("err", err.Error()))
		return SendResult{Retriable: true, Error: err.Error()}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return SendResult{Success: true, ResponseCode: &code}
	}

	// Any response short of a 2xx counts as transient. Only failures
	// before the request leaves the process (refused URL, bad secret)
	// end a delivery without retrying.
	return SendResult{Retriable: true, ResponseCode: &code, Error: fmt.Sprintf("endpoint returned %d", code)}
}
