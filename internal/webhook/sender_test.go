package webhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSenderSend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	secret := []byte("super-secret-signing-key")
	payload := []byte(`{"id":"evt-1","type":"SALE_COMPLETED","data":{}}`)
	frozen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("signed request accepted", func(t *testing.T) {
		// given
		var received *http.Request
		var body []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received = r.Clone(context.Background())
			body, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		sender := NewSender(logger, NewURLChecker(WithAllowPrivate()), 5*time.Second,
			WithSenderNow(func() time.Time { return frozen }),
		)

		// when
		result := sender.Send(context.Background(), srv.URL, secret, payload)

		// then
		require.True(t, result.Success)
		require.Equal(t, http.StatusOK, *result.ResponseCode)

		require.Equal(t, "application/json", received.Header.Get("Content-Type"))
		require.Equal(t, defaultUserAgent, received.Header.Get("User-Agent"))
		require.Equal(t, "1714564800", received.Header.Get("X-Webhook-Timestamp"))
		require.True(t, VerifySignature(secret, frozen.Unix(), body, received.Header.Get("X-Webhook-Signature")))
	})

	tt := []struct {
		name              string
		statusCode        int
		expectedRetriable bool
	}{
		{
			name:              "server error is retriable",
			statusCode:        http.StatusInternalServerError,
			expectedRetriable: true,
		},
		{
			name:              "rate limited is retriable",
			statusCode:        http.StatusTooManyRequests,
			expectedRetriable: true,
		},
		{
			name:              "request timeout is retriable",
			statusCode:        http.StatusRequestTimeout,
			expectedRetriable: true,
		},
		{
			name:              "not found is retriable",
			statusCode:        http.StatusNotFound,
			expectedRetriable: true,
		},
		{
			name:              "gone endpoint is retriable",
			statusCode:        http.StatusGone,
			expectedRetriable: true,
		},
		{
			name:              "unauthorized is retriable",
			statusCode:        http.StatusUnauthorized,
			expectedRetriable: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.statusCode)
			}))
			defer srv.Close()

			sender := NewSender(logger, NewURLChecker(WithAllowPrivate()), 5*time.Second)

			result := sender.Send(context.Background(), srv.URL, secret, payload)

			require.False(t, result.Success)
			require.Equal(t, tc.expectedRetriable, result.Retriable)
			require.Equal(t, tc.statusCode, *result.ResponseCode)
		})
	}

	t.Run("connection refused is retriable", func(t *testing.T) {
		sender := NewSender(logger, NewURLChecker(WithAllowPrivate()), time.Second)

		result := sender.Send(context.Background(), "http://127.0.0.1:1/hooks", secret, payload)

		require.False(t, result.Success)
		require.True(t, result.Retriable)
		require.Nil(t, result.ResponseCode)
	})

	t.Run("private url refused without network call", func(t *testing.T) {
		var calls int
		client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			calls++
			return nil, nil
		})}

		sender := NewSender(logger, NewURLChecker(), 5*time.Second, WithHTTPClient(client))

		result := sender.Send(context.Background(), "http://169.254.169.254/latest/meta-data", secret, payload)

		require.False(t, result.Success)
		require.False(t, result.Retriable)
		require.Zero(t, calls)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
