package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrNotClaimed       = errors.New("record is not claimed for completion")
	ErrFailedToOpenDB   = errors.New("failed to open postgres database")
	ErrFailedToCommit   = errors.New("failed to commit transaction")
	ErrFailedToRollback = errors.New("failed to rollback transaction")
)

type EscrowStatus string

const (
	StatusTransferInProgress   EscrowStatus = "TRANSFER_IN_PROGRESS"
	StatusAwaitingConfirmation EscrowStatus = "AWAITING_CONFIRMATION"
	StatusCompleting           EscrowStatus = "COMPLETING"
	StatusCompleted            EscrowStatus = "COMPLETED"
	StatusDisputed             EscrowStatus = "DISPUTED"
	StatusCancelled            EscrowStatus = "CANCELLED"
	StatusRefunded             EscrowStatus = "REFUNDED"
)

// ReleasableStatuses are the statuses eligible for the auto-release claim.
func ReleasableStatuses() []string {
	return []string{string(StatusTransferInProgress), string(StatusAwaitingConfirmation)}
}

// EscrowTransaction is the ledger record of one escrowed sale. It is created
// when a sale settles and mutated only through the reconciliation state
// machine; it is never deleted.
type EscrowTransaction struct {
	ID                string
	Status            EscrowStatus
	BuyerID           string
	SellerID          string
	ListingID         string
	SaleAmount        int64
	TransferStartedAt time.Time
	ClaimedAt         *time.Time
	CompletedAt       *time.Time
	ReleasedAt        *time.Time
	DisputeID         *string

	// on-chain linkage; nil when the listing has no on-chain counterpart
	EscrowAddress  *string
	ListingAddress *string
	SellerAddress  *string
	ChainSignature *string
}

// OnChain reports whether the transaction has on-chain accounts to release.
func (t *EscrowTransaction) OnChain() bool {
	return t.EscrowAddress != nil && t.ListingAddress != nil && t.SellerAddress != nil
}

// PendingWithdrawal records funds parked in a holding account after a bidder
// was outbid. It transitions claimed=false→true exactly once.
type PendingWithdrawal struct {
	ID           string
	UserID       string
	ListingID    string
	Amount       int64
	Currency     string
	CreatedAt    time.Time
	Claimed      bool
	ClaimedAt    *time.Time
	ChainSynced  bool
	WithdrawalID uint64

	ListingAddress    *string
	EscrowAddress     *string
	WithdrawalAddress *string
	RecipientAddress  *string
}

// OnChain reports whether the withdrawal has on-chain accounts to expire.
func (w *PendingWithdrawal) OnChain() bool {
	return w.ListingAddress != nil && w.EscrowAddress != nil && w.WithdrawalAddress != nil && w.RecipientAddress != nil
}

type Notification struct {
	UserID      string
	Kind        string
	Message     string
	ReferenceID string
}

// SellerRecord is the aggregate a seller's badge qualification runs on.
type SellerRecord struct {
	UserID      string
	SalesCount  int64
	TotalVolume int64
	Badge       *string
}

// Completion describes the final multi-row commit of a released escrow.
type Completion struct {
	TransactionID  string
	SellerID       string
	BuyerID        string
	SaleAmount     int64
	ChainSignature *string
	// CountSale gates the seller/buyer counter increments; it is false when
	// the sale amount failed the data-integrity check.
	CountSale     bool
	Notifications []Notification
}

type EscrowStore interface {
	// GetReleasable returns transactions eligible for auto-release, oldest
	// first: releasable status, transfer started before olderThan, no dispute.
	GetReleasable(ctx context.Context, olderThan time.Time, limit int) ([]*EscrowTransaction, error)

	// ClaimForCompletion conditionally moves a transaction to COMPLETING.
	// false means the row was no longer eligible, e.g. claimed concurrently.
	ClaimForCompletion(ctx context.Context, id string) (bool, error)

	// RevertClaim moves a COMPLETING transaction back to
	// AWAITING_CONFIRMATION so the next run retries it.
	RevertClaim(ctx context.Context, id string) error

	// RevertStaleClaims reverts COMPLETING rows whose claim is older than
	// olderThan, recovering from a crash between claim and completion.
	RevertStaleClaims(ctx context.Context, olderThan time.Time) (int64, error)

	// CompleteRelease applies the terminal COMPLETED transition, counter
	// increments and notifications in one database transaction.
	CompleteRelease(ctx context.Context, completion Completion) error

	GetExpiredWithdrawals(ctx context.Context, olderThan time.Time, limit int) ([]*PendingWithdrawal, error)

	// ClaimWithdrawal marks a withdrawal claimed exactly once. chainSynced
	// records whether the on-chain expiry landed.
	ClaimWithdrawal(ctx context.Context, id string, chainSynced bool) (bool, error)

	InsertNotification(ctx context.Context, notification Notification) error

	GetBadgeCandidates(ctx context.Context, minSales int64, limit int) ([]*SellerRecord, error)
	SetSellerBadge(ctx context.Context, userID, badge string) error

	Close() error
}
