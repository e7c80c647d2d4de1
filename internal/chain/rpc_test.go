package chain_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solmarket/settler/internal/chain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(bytes.Buffer), nil))
}

func testKey() string {
	return base58.Encode(bytes.Repeat([]byte{7}, 32))
}

func testAddress(b byte) string {
	return base58.Encode(bytes.Repeat([]byte{b}, 32))
}

type rpcCall struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

func TestSubmitInstruction(t *testing.T) {
	tt := []struct {
		name          string
		sendErr       *string
		statusErr     string
		confirmAfter  int
		expectedError error
	}{
		{
			name: "confirmed on first poll",
		},
		{
			name:         "confirmed on third poll",
			confirmAfter: 2,
		},
		{
			name:          "rejected by chain",
			sendErr:       ptrTo("custom program error: 0x1771"),
			expectedError: chain.ErrTxRejected,
		},
		{
			name:          "rejected during confirmation",
			statusErr:     "InstructionError",
			expectedError: chain.ErrTxRejected,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			// given
			polls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var call rpcCall
				require.NoError(t, json.NewDecoder(r.Body).Decode(&call))

				switch call.Method {
				case "sendTransaction":
					if tc.sendErr != nil {
						writeRPC(t, w, nil, *tc.sendErr)
						return
					}
					writeRPC(t, w, "ok", "")
				case "getSignatureStatus":
					if tc.statusErr != "" {
						writeRPC(t, w, map[string]any{"confirmed": false, "err": tc.statusErr}, "")
						return
					}
					confirmed := polls >= tc.confirmAfter
					polls++
					writeRPC(t, w, map[string]any{"confirmed": confirmed}, "")
				default:
					t.Errorf("unexpected rpc method %s", call.Method)
				}
			}))
			defer server.Close()

			sut, err := chain.NewRPCClient(server.URL, testAddress(1), testKey(), testLogger(),
				chain.WithPollInterval(10*time.Millisecond),
				chain.WithConfirmTimeout(time.Second),
			)
			require.NoError(t, err)

			accounts, data := chain.ReleaseEscrowInstruction(sut.AuthorityAddress(), testAddress(2), testAddress(3), testAddress(4), 5_000_000)

			// when
			signature, err := sut.SubmitInstruction(context.Background(), accounts, data)

			// then
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, signature)
		})
	}
}

func TestSubmitInstructionNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sut, err := chain.NewRPCClient(server.URL, testAddress(1), testKey(), testLogger())
	require.NoError(t, err)

	accounts, data := chain.ExpireWithdrawalInstruction(sut.AuthorityAddress(), testAddress(2), testAddress(3), testAddress(4), testAddress(5), 42)

	_, err = sut.SubmitInstruction(context.Background(), accounts, data)
	require.ErrorIs(t, err, chain.ErrTxUnconfirmed)
}

func TestNewRPCClientInvalidKey(t *testing.T) {
	_, err := chain.NewRPCClient("http://localhost:8899", testAddress(1), "not-a-key", testLogger())
	require.ErrorIs(t, err, chain.ErrInvalidAuthorityKey)

	// valid base58 but wrong length
	_, err = chain.NewRPCClient("http://localhost:8899", testAddress(1), base58.Encode([]byte{1, 2, 3}), testLogger())
	require.ErrorIs(t, err, chain.ErrInvalidAuthorityKey)
}

func TestSubmitInstructionInvalidAccount(t *testing.T) {
	sut, err := chain.NewRPCClient("http://localhost:8899", testAddress(1), testKey(), testLogger())
	require.NoError(t, err)

	_, err = sut.SubmitInstruction(context.Background(), []chain.AccountMeta{{Address: "!!"}}, []byte{1})
	require.ErrorIs(t, err, chain.ErrInvalidAccount)
}

func writeRPC(t *testing.T, w http.ResponseWriter, result any, rpcErr string) {
	t.Helper()

	resp := map[string]any{"jsonrpc": "2.0", "id": 1}
	if rpcErr != "" {
		resp["error"] = map[string]any{"code": -32002, "message": rpcErr}
	} else {
		resp["result"] = result
	}
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func ptrTo[T any](v T) *T {
	return &v
}
