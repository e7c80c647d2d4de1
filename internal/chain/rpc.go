package chain

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mr-tron/base58"
)

// RPCClient talks JSON-RPC to a chain node. It signs submitted instructions
// with the backend authority key and polls for confirmation before returning.
type RPCClient struct {
	url        string
	programID  string
	authority  ed25519.PrivateKey
	httpClient *http.Client
	logger     *slog.Logger

	confirmTimeout time.Duration
	pollInterval   time.Duration
}

func WithConfirmTimeout(d time.Duration) func(*RPCClient) {
	return func(c *RPCClient) {
		c.confirmTimeout = d
	}
}

func WithPollInterval(d time.Duration) func(*RPCClient) {
	return func(c *RPCClient) {
		c.pollInterval = d
	}
}

func WithHTTPClient(client *http.Client) func(*RPCClient) {
	return func(c *RPCClient) {
		c.httpClient = client
	}
}

// NewRPCClient creates a gateway for the program at programID. authorityKey
// is the base58-encoded ed25519 seed of the backend signing authority.
func NewRPCClient(url, programID, authorityKey string, logger *slog.Logger, opts ...func(*RPCClient)) (*RPCClient, error) {
	seed, err := base58.Decode(authorityKey)
	if err != nil {
		return nil, errors.Join(ErrInvalidAuthorityKey, err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Join(ErrInvalidAuthorityKey, fmt.Errorf("expected %d byte seed, got %d", ed25519.SeedSize, len(seed)))
	}

	c := &RPCClient{
		url:            url,
		programID:      programID,
		authority:      ed25519.NewKeyFromSeed(seed),
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		logger:         logger.With(slog.String("module", "chain")),
		confirmTimeout: 60 * time.Second,
		pollInterval:   2 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// AuthorityAddress returns the base58 address of the backend signing key.
func (c *RPCClient) AuthorityAddress() string {
	pub := c.authority.Public().(ed25519.PublicKey)
	return base58.Encode(pub)
}

func (c *RPCClient) SubmitInstruction(ctx context.Context, accounts []AccountMeta, data []byte) (string, error) {
	message, err := c.encodeMessage(accounts, data)
	if err != nil {
		return "", err
	}

	sig := ed25519.Sign(c.authority, message)
	signature := base58.Encode(sig)

	tx := append(sig, message...)

	err = c.call(ctx, "sendTransaction", []any{base64.StdEncoding.EncodeToString(tx), map[string]string{"encoding": "base64"}}, nil)
	if err != nil {
		return "", err
	}

	err = c.awaitConfirmation(ctx, signature)
	if err != nil {
		return "", err
	}

	c.logger.Info("instruction confirmed", slog.String("signature", signature))
	return signature, nil
}

// encodeMessage serializes program id, account metas and instruction data
// into the byte string the authority signs.
func (c *RPCClient) encodeMessage(accounts []AccountMeta, data []byte) ([]byte, error) {
	var message bytes.Buffer

	program, err := base58.Decode(c.programID)
	if err != nil {
		return nil, errors.Join(ErrInvalidAccount, fmt.Errorf("program id: %s", c.programID))
	}
	message.Write(program)

	message.WriteByte(uint8(len(accounts)))
	for _, account := range accounts {
		key, err := base58.Decode(account.Address)
		if err != nil || len(key) != ed25519.PublicKeySize {
			return nil, errors.Join(ErrInvalidAccount, fmt.Errorf("account: %s", account.Address))
		}
		message.Write(key)

		var flags uint8
		if account.Signer {
			flags |= 1
		}
		if account.Writable {
			flags |= 2
		}
		message.WriteByte(flags)
	}

	message.Write(data)
	return message.Bytes(), nil
}

func (c *RPCClient) awaitConfirmation(ctx context.Context, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	operation := func() error {
		var status struct {
			Confirmed bool   `json:"confirmed"`
			Err       string `json:"err"`
		}
		err := c.call(ctx, "getSignatureStatus", []any{signature}, &status)
		if err != nil {
			if errors.Is(err, ErrTxRejected) {
				return backoff.Permanent(err)
			}
			return err
		}
		if status.Err != "" {
			return backoff.Permanent(errors.Join(ErrTxRejected, errors.New(status.Err)))
		}
		if !status.Confirmed {
			return ErrTxUnconfirmed
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.NewConstantBackOff(c.pollInterval), ctx))
	if err != nil {
		if errors.Is(err, ErrTxRejected) {
			return err
		}
		return errors.Join(ErrTxUnconfirmed, err)
	}

	return nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *RPCClient) call(ctx context.Context, method string, params []any, result any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrTxUnconfirmed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Join(ErrTxUnconfirmed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return errors.Join(ErrTxUnconfirmed, fmt.Errorf("rpc status %d", resp.StatusCode))
	}

	var rpcResp rpcResponse
	err = json.Unmarshal(raw, &rpcResp)
	if err != nil {
		return errors.Join(ErrTxUnconfirmed, err)
	}

	if rpcResp.Error != nil {
		return errors.Join(ErrTxRejected, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message))
	}

	if result != nil {
		err = json.Unmarshal(rpcResp.Result, result)
		if err != nil {
			return errors.Join(ErrTxUnconfirmed, err)
		}
	}

	return nil
}
