package chain

import (
	"context"
	"errors"
)

var (
	// ErrTxRejected indicates the chain refused the transaction; retrying the
	// same instruction will not succeed.
	ErrTxRejected = errors.New("transaction rejected by chain")
	// ErrTxUnconfirmed indicates a network failure or a confirmation timeout;
	// the instruction may or may not have landed and is safe to retry later.
	ErrTxUnconfirmed = errors.New("transaction not confirmed")

	ErrInvalidAuthorityKey = errors.New("invalid authority key")
	ErrInvalidAccount      = errors.New("invalid account address")
)

// AccountMeta names one account an instruction touches.
type AccountMeta struct {
	Address  string
	Signer   bool
	Writable bool
}

// Client submits signed instructions on behalf of the backend authority key
// and blocks until the network confirms them.
type Client interface {
	SubmitInstruction(ctx context.Context, accounts []AccountMeta, data []byte) (signature string, err error)
}
