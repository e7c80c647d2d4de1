package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/solmarket/settler/internal/chain"
	"github.com/solmarket/settler/internal/store"
	"github.com/solmarket/settler/internal/webhook"
)

const (
	defaultReleaseDeadline     = 7 * 24 * time.Hour
	defaultReleaseBatchSize    = 100
	defaultWithdrawalExpiry    = time.Hour
	defaultWithdrawalBatchSize = 10
	defaultStaleClaimAge       = time.Hour

	badgeQualificationLock = "badge-qualification"

	badgeTrustedSeller = "TRUSTED_SELLER"
	badgeTopSeller     = "TOP_SELLER"

	trustedSellerMinSales = 10
	topSellerMinSales     = 50
	badgeBatchSize        = 200
	badgeRetryInterval    = 200 * time.Millisecond
	badgeRetryAttempts    = 3
)

// Result summarizes one job run. Per-record failures are accumulated here
// and never abort sibling records.
type Result struct {
	Processed int      `json:"processed"`
	Released  int      `json:"released"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
	Message   string   `json:"message,omitempty"`
}

func (r *Result) recordError(id string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", id, err))
}

// Locker is the mutual-exclusion primitive guarding single-instance jobs.
type Locker interface {
	Acquire(name string) (release func(), ok bool, err error)
}

// EventPublisher fans a domain event out to webhook subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event webhook.Event) error
}

// Reconciler runs the scheduled jobs that keep on-chain escrow and
// withdrawal state consistent with the off-chain ledger.
type Reconciler struct {
	store     store.EscrowStore
	chain     chain.Client
	authority string
	publisher EventPublisher
	locker    Locker
	logger    *slog.Logger
	now       func() time.Time

	autoReleaseEnabled  bool
	releaseDeadline     time.Duration
	releaseBatchSize    int
	withdrawalExpiry    time.Duration
	withdrawalBatchSize int
	staleClaimAge       time.Duration
}

func WithNow(nowFunc func() time.Time) func(*Reconciler) {
	return func(r *Reconciler) {
		r.now = nowFunc
	}
}

// WithChain enables on-chain release and expiry through the given client,
// signing as the given authority address.
func WithChain(client chain.Client, authority string) func(*Reconciler) {
	return func(r *Reconciler) {
		r.chain = client
		r.authority = authority
	}
}

func WithPublisher(publisher EventPublisher) func(*Reconciler) {
	return func(r *Reconciler) {
		r.publisher = publisher
	}
}

func WithLocker(locker Locker) func(*Reconciler) {
	return func(r *Reconciler) {
		r.locker = locker
	}
}

func WithAutoReleaseEnabled(enabled bool) func(*Reconciler) {
	return func(r *Reconciler) {
		r.autoReleaseEnabled = enabled
	}
}

func WithReleaseDeadline(deadline time.Duration) func(*Reconciler) {
	return func(r *Reconciler) {
		r.releaseDeadline = deadline
	}
}

func WithReleaseBatchSize(size int) func(*Reconciler) {
	return func(r *Reconciler) {
		r.releaseBatchSize = size
	}
}

func WithWithdrawalExpiry(expiry time.Duration) func(*Reconciler) {
	return func(r *Reconciler) {
		r.withdrawalExpiry = expiry
	}
}

func WithWithdrawalBatchSize(size int) func(*Reconciler) {
	return func(r *Reconciler) {
		r.withdrawalBatchSize = size
	}
}

func WithStaleClaimAge(age time.Duration) func(*Reconciler) {
	return func(r *Reconciler) {
		r.staleClaimAge = age
	}
}

func New(escrowStore store.EscrowStore, logger *slog.Logger, opts ...func(*Reconciler)) *Reconciler {
	r := &Reconciler{
		store:               escrowStore,
		logger:              logger.With(slog.String("module", "reconciler")),
		now:                 time.Now,
		autoReleaseEnabled:  true,
		releaseDeadline:     defaultReleaseDeadline,
		releaseBatchSize:    defaultReleaseBatchSize,
		withdrawalExpiry:    defaultWithdrawalExpiry,
		withdrawalBatchSize: defaultWithdrawalBatchSize,
		staleClaimAge:       defaultStaleClaimAge,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Reconciler) chainAvailable() bool {
	return r.chain != nil && r.authority != ""
}

// AutoRelease finds escrow transactions whose transfer deadline passed,
// claims them, releases funds on chain where linked, and commits the
// COMPLETED transition. Concurrent runs are safe: the conditional claim
// serializes access per row.
func (r *Reconciler) AutoRelease(ctx context.Context) Result {
	result := Result{Errors: []string{}}

	if !r.autoReleaseEnabled {
		r.logger.Info("auto release disabled, skipping")
		result.Message = "auto release disabled"
		return result
	}

	now := r.now().UTC()

	// Recover rows a crashed run left in COMPLETING before looking for
	// new candidates.
	reverted, err := r.store.RevertStaleClaims(ctx, now.Add(-r.staleClaimAge))
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("stale claim sweep: %v", err))
	} else if reverted > 0 {
		r.logger.Warn("reverted stale claims", slog.Int64("count", reverted))
	}

	candidates, err := r.store.GetReleasable(ctx, now.Add(-r.releaseDeadline), r.releaseBatchSize)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("query releasable: %v", err))
		return result
	}

	for _, tx := range candidates {
		result.Processed++

		claimed, err := r.store.ClaimForCompletion(ctx, tx.ID)
		if err != nil {
			result.recordError(tx.ID, err)
			continue
		}
		if !claimed {
			r.logger.Debug("transaction claimed by concurrent run", slog.String("tx", tx.ID))
			continue
		}

		if !r.release(ctx, tx, &result) {
			continue
		}

		result.Released++
	}

	r.logger.Info("auto release run finished",
		slog.Int("processed", result.Processed),
		slog.Int("released", result.Released),
		slog.Int("failed", result.Failed),
	)

	return result
}

// release drives one claimed transaction to COMPLETED. It reports false
// when the record failed and was either reverted or left for the stale
// sweep.
func (r *Reconciler) release(ctx context.Context, tx *store.EscrowTransaction, result *Result) bool {
	var signature *string

	countSale := tx.SaleAmount > 0
	if !countSale {
		r.logger.Warn("non-positive sale amount, skipping counter increments",
			slog.String("tx", tx.ID), slog.Int64("amount", tx.SaleAmount))
	}

	if tx.OnChain() && r.chainAvailable() {
		// Clamp before the unsigned conversion so a corrupt negative
		// amount cannot wrap into a huge value on chain.
		var amount uint64
		if countSale {
			amount = uint64(tx.SaleAmount)
		}
		accounts, data := chain.ReleaseEscrowInstruction(r.authority, *tx.EscrowAddress, *tx.ListingAddress, *tx.SellerAddress, amount)

		sig, err := r.chain.SubmitInstruction(ctx, accounts, data)
		if err != nil {
			// Revert so the next run retries instead of leaving the row
			// stuck in COMPLETING.
			rErr := r.store.RevertClaim(ctx, tx.ID)
			if rErr != nil {
				r.logger.Error("failed to revert claim", slog.String("tx", tx.ID), slog.String("err", rErr.Error()))
			}
			result.recordError(tx.ID, err)
			return false
		}
		signature = &sig
	}

	completion := store.Completion{
		TransactionID:  tx.ID,
		SellerID:       tx.SellerID,
		BuyerID:        tx.BuyerID,
		SaleAmount:     tx.SaleAmount,
		ChainSignature: signature,
		CountSale:      countSale,
		Notifications: []store.Notification{
			{
				UserID:      tx.SellerID,
				Kind:        "ESCROW_RELEASED",
				Message:     "Escrowed funds for your sale have been released",
				ReferenceID: tx.ID,
			},
			{
				UserID:      tx.BuyerID,
				Kind:        "SALE_COMPLETED",
				Message:     "Your purchase is complete",
				ReferenceID: tx.ID,
			},
		},
	}

	err := r.store.CompleteRelease(ctx, completion)
	if err != nil {
		// The row stays COMPLETING; the stale sweep picks it up next run.
		result.recordError(tx.ID, err)
		return false
	}

	r.publish(ctx, webhook.EventEscrowReleased, map[string]any{
		"transaction_id":  tx.ID,
		"seller_id":       tx.SellerID,
		"buyer_id":        tx.BuyerID,
		"amount":          tx.SaleAmount,
		"chain_signature": signature,
	})

	return true
}

// ExpireWithdrawals claims unclaimed withdrawals past the expiry window.
// The on-chain expiry is deliberately at-least-once: a chain failure is
// logged and the row is still claimed, flagged chain_synced=false so an
// admin reconciliation can find the drift.
func (r *Reconciler) ExpireWithdrawals(ctx context.Context) Result {
	result := Result{Errors: []string{}}

	now := r.now().UTC()

	withdrawals, err := r.store.GetExpiredWithdrawals(ctx, now.Add(-r.withdrawalExpiry), r.withdrawalBatchSize)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("query expired withdrawals: %v", err))
		return result
	}

	for _, w := range withdrawals {
		result.Processed++

		chainSynced := true
		if w.OnChain() && r.chainAvailable() {
			accounts, data := chain.ExpireWithdrawalInstruction(r.authority, *w.ListingAddress, *w.EscrowAddress, *w.WithdrawalAddress, *w.RecipientAddress, w.WithdrawalID)

			_, err = r.chain.SubmitInstruction(ctx, accounts, data)
			if err != nil {
				r.logger.Error("on-chain withdrawal expiry failed, claiming anyway",
					slog.String("withdrawal", w.ID), slog.String("err", err.Error()))
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", w.ID, err))
				chainSynced = false
			}
		}

		claimed, err := r.store.ClaimWithdrawal(ctx, w.ID, chainSynced)
		if err != nil {
			result.recordError(w.ID, err)
			continue
		}
		if !claimed {
			r.logger.Debug("withdrawal claimed by concurrent run", slog.String("withdrawal", w.ID))
			continue
		}

		err = r.store.InsertNotification(ctx, store.Notification{
			UserID:      w.UserID,
			Kind:        "WITHDRAWAL_EXPIRED",
			Message:     "Your unclaimed withdrawal was returned to escrow",
			ReferenceID: w.ID,
		})
		if err != nil {
			r.logger.Error("failed to insert withdrawal notification", slog.String("withdrawal", w.ID), slog.String("err", err.Error()))
		}

		r.publish(ctx, webhook.EventWithdrawalExpired, map[string]any{
			"withdrawal_id": w.ID,
			"user_id":       w.UserID,
			"listing_id":    w.ListingID,
			"amount":        w.Amount,
			"chain_synced":  chainSynced,
		})

		result.Released++
	}

	r.logger.Info("withdrawal expiry run finished",
		slog.Int("processed", result.Processed),
		slog.Int("claimed", result.Released),
		slog.Int("failed", result.Failed),
	)

	return result
}

// QualifyBadges re-evaluates seller badges from the sales aggregates. The
// job is lock guarded; a held lock is a normal skip. Each record write is
// retried a bounded number of times so one transient failure does not
// abort the batch.
func (r *Reconciler) QualifyBadges(ctx context.Context) Result {
	result := Result{Errors: []string{}}

	if r.locker != nil {
		release, ok, err := r.locker.Acquire(badgeQualificationLock)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("acquire lock: %v", err))
			return result
		}
		if !ok {
			result.Message = "still running"
			return result
		}
		defer release()
	}

	var candidates []*store.SellerRecord
	err := r.retry(ctx, func() error {
		var qErr error
		candidates, qErr = r.store.GetBadgeCandidates(ctx, trustedSellerMinSales, badgeBatchSize)
		return qErr
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("query candidates: %v", err))
		return result
	}

	for _, candidate := range candidates {
		result.Processed++

		badge := badgeFor(candidate.SalesCount)
		if candidate.Badge != nil && *candidate.Badge == badge {
			continue
		}

		err = r.retry(ctx, func() error {
			return r.store.SetSellerBadge(ctx, candidate.UserID, badge)
		})
		if err != nil {
			result.recordError(candidate.UserID, err)
			continue
		}

		r.logger.Info("seller badge updated", slog.String("user", candidate.UserID), slog.String("badge", badge))
		result.Released++
	}

	return result
}

func badgeFor(salesCount int64) string {
	if salesCount >= topSellerMinSales {
		return badgeTopSeller
	}
	return badgeTrustedSeller
}

func (r *Reconciler) retry(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(badgeRetryInterval), badgeRetryAttempts-1), ctx)
	return backoff.Retry(op, policy)
}

func (r *Reconciler) publish(ctx context.Context, eventType webhook.EventType, data map[string]any) {
	if r.publisher == nil {
		return
	}

	event, err := webhook.NewEvent(eventType, data)
	if err != nil {
		r.logger.Error("failed to build event", slog.String("type", string(eventType)), slog.String("err", err.Error()))
		return
	}

	err = r.publisher.Publish(ctx, event)
	if err != nil {
		r.logger.Error("failed to publish event", slog.String("type", string(eventType)), slog.String("err", err.Error()))
	}
}
