package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/solmarket/settler/internal/store"
)

const (
	postgresDriverName = "postgres"
)

type PostgreSQL struct {
	db  *sql.DB
	now func() time.Time
}

func WithNow(nowFunc func() time.Time) func(*PostgreSQL) {
	return func(p *PostgreSQL) {
		p.now = nowFunc
	}
}

func New(dbInfo string, idleConns int, maxOpenConns int, opts ...func(postgreSQL *PostgreSQL)) (*PostgreSQL, error) {
	db, err := sql.Open(postgresDriverName, dbInfo)
	if err != nil {
		return nil, errors.Join(store.ErrFailedToOpenDB, err)
	}

	db.SetMaxIdleConns(idleConns)
	db.SetMaxOpenConns(maxOpenConns)

	p := &PostgreSQL{
		db:  db,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}

func (p *PostgreSQL) GetReleasable(ctx context.Context, olderThan time.Time, limit int) ([]*store.EscrowTransaction, error) {
	const q = `SELECT id
		,status
		,buyer_id
		,seller_id
		,listing_id
		,sale_amount
		,transfer_started_at
		,claimed_at
		,completed_at
		,released_at
		,dispute_id
		,escrow_address
		,listing_address
		,seller_address
		,chain_signature
		FROM settler.escrow_transactions
		WHERE status = ANY($1)
		AND transfer_started_at < $2
		AND dispute_id IS NULL
		ORDER BY transfer_started_at ASC
		LIMIT $3`

	rows, err := p.db.QueryContext(ctx, q, pq.Array(store.ReleasableStatuses()), olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*store.EscrowTransaction
	for rows.Next() {
		tx, err := scanEscrowTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func (p *PostgreSQL) ClaimForCompletion(ctx context.Context, id string) (bool, error) {
	// Single conditional update; the affected-row count is the success
	// signal. Zero rows means a concurrent run claimed the row first or its
	// status changed underneath us.
	const q = `UPDATE settler.escrow_transactions
		SET status = $1, claimed_at = $2
		WHERE id = $3
		AND status = ANY($4)
		AND dispute_id IS NULL`

	result, err := p.db.ExecContext(ctx, q, store.StatusCompleting, p.now().UTC(), id, pq.Array(store.ReleasableStatuses()))
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (p *PostgreSQL) RevertClaim(ctx context.Context, id string) error {
	const q = `UPDATE settler.escrow_transactions
		SET status = $1, claimed_at = NULL
		WHERE id = $2
		AND status = $3`

	result, err := p.db.ExecContext(ctx, q, store.StatusAwaitingConfirmation, id, store.StatusCompleting)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotClaimed
	}

	return nil
}

func (p *PostgreSQL) RevertStaleClaims(ctx context.Context, olderThan time.Time) (int64, error) {
	const q = `UPDATE settler.escrow_transactions
		SET status = $1, claimed_at = NULL
		WHERE status = $2
		AND claimed_at < $3`

	result, err := p.db.ExecContext(ctx, q, store.StatusAwaitingConfirmation, store.StatusCompleting, olderThan)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (p *PostgreSQL) CompleteRelease(ctx context.Context, completion store.Completion) (err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = errors.Join(err, store.ErrFailedToRollback, rErr)
			}
		}
	}()

	now := p.now().UTC()

	const updateTx = `UPDATE settler.escrow_transactions
		SET status = $1
		,completed_at = $2
		,released_at = $2
		,chain_signature = COALESCE($3, chain_signature)
		WHERE id = $4
		AND status = $5`

	result, err := tx.ExecContext(ctx, updateTx, store.StatusCompleted, now, completion.ChainSignature, completion.TransactionID, store.StatusCompleting)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = store.ErrNotClaimed
		return err
	}

	if completion.CountSale {
		const upsertSeller = `INSERT INTO settler.user_stats (user_id, sales_count, total_volume, purchases_count)
			VALUES ($1, 1, $2, 0)
			ON CONFLICT (user_id) DO UPDATE
			SET sales_count = settler.user_stats.sales_count + 1
			,total_volume = settler.user_stats.total_volume + $2`

		_, err = tx.ExecContext(ctx, upsertSeller, completion.SellerID, completion.SaleAmount)
		if err != nil {
			return err
		}

		const upsertBuyer = `INSERT INTO settler.user_stats (user_id, sales_count, total_volume, purchases_count)
			VALUES ($1, 0, 0, 1)
			ON CONFLICT (user_id) DO UPDATE
			SET purchases_count = settler.user_stats.purchases_count + 1`

		_, err = tx.ExecContext(ctx, upsertBuyer, completion.BuyerID)
		if err != nil {
			return err
		}
	}

	for _, notification := range completion.Notifications {
		err = insertNotification(ctx, tx, notification, now)
		if err != nil {
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		return errors.Join(store.ErrFailedToCommit, err)
	}

	return nil
}

func (p *PostgreSQL) GetExpiredWithdrawals(ctx context.Context, olderThan time.Time, limit int) ([]*store.PendingWithdrawal, error) {
	const q = `SELECT id
		,user_id
		,listing_id
		,amount
		,currency
		,created_at
		,claimed
		,claimed_at
		,chain_synced
		,withdrawal_id
		,listing_address
		,escrow_address
		,withdrawal_address
		,recipient_address
		FROM settler.pending_withdrawals
		WHERE claimed = FALSE
		AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2`

	rows, err := p.db.QueryContext(ctx, q, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var withdrawals []*store.PendingWithdrawal
	for rows.Next() {
		w := &store.PendingWithdrawal{}
		var claimedAt sql.NullTime

		err = rows.Scan(&w.ID, &w.UserID, &w.ListingID, &w.Amount, &w.Currency, &w.CreatedAt, &w.Claimed, &claimedAt, &w.ChainSynced, &w.WithdrawalID,
			&w.ListingAddress, &w.EscrowAddress, &w.WithdrawalAddress, &w.RecipientAddress)
		if err != nil {
			return nil, err
		}

		if claimedAt.Valid {
			w.ClaimedAt = ptrTo(claimedAt.Time.UTC())
		}

		withdrawals = append(withdrawals, w)
	}

	return withdrawals, rows.Err()
}

func (p *PostgreSQL) ClaimWithdrawal(ctx context.Context, id string, chainSynced bool) (bool, error) {
	const q = `UPDATE settler.pending_withdrawals
		SET claimed = TRUE, claimed_at = $1, chain_synced = $2
		WHERE id = $3
		AND claimed = FALSE`

	result, err := p.db.ExecContext(ctx, q, p.now().UTC(), chainSynced, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (p *PostgreSQL) InsertNotification(ctx context.Context, notification store.Notification) error {
	return insertNotification(ctx, p.db, notification, p.now().UTC())
}

func (p *PostgreSQL) GetBadgeCandidates(ctx context.Context, minSales int64, limit int) ([]*store.SellerRecord, error) {
	const q = `SELECT user_id
		,sales_count
		,total_volume
		,badge
		FROM settler.user_stats
		WHERE sales_count >= $1
		ORDER BY sales_count DESC
		LIMIT $2`

	rows, err := p.db.QueryContext(ctx, q, minSales, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sellers []*store.SellerRecord
	for rows.Next() {
		s := &store.SellerRecord{}
		err = rows.Scan(&s.UserID, &s.SalesCount, &s.TotalVolume, &s.Badge)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, s)
	}

	return sellers, rows.Err()
}

func (p *PostgreSQL) SetSellerBadge(ctx context.Context, userID, badge string) error {
	const q = `UPDATE settler.user_stats
		SET badge = $1
		WHERE user_id = $2`

	result, err := p.db.ExecContext(ctx, q, badge, userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Join(store.ErrNotFound, fmt.Errorf("user: %s", userID))
	}

	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertNotification(ctx context.Context, db execer, notification store.Notification, now time.Time) error {
	const q = `INSERT INTO settler.notifications (user_id, kind, message, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := db.ExecContext(ctx, q, notification.UserID, notification.Kind, notification.Message, notification.ReferenceID, now)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEscrowTransaction(row scanner) (*store.EscrowTransaction, error) {
	tx := &store.EscrowTransaction{}
	var status string
	var claimedAt, completedAt, releasedAt sql.NullTime

	err := row.Scan(&tx.ID, &status, &tx.BuyerID, &tx.SellerID, &tx.ListingID, &tx.SaleAmount, &tx.TransferStartedAt,
		&claimedAt, &completedAt, &releasedAt, &tx.DisputeID,
		&tx.EscrowAddress, &tx.ListingAddress, &tx.SellerAddress, &tx.ChainSignature)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	tx.Status = store.EscrowStatus(status)
	if claimedAt.Valid {
		tx.ClaimedAt = ptrTo(claimedAt.Time.UTC())
	}
	if completedAt.Valid {
		tx.CompletedAt = ptrTo(completedAt.Time.UTC())
	}
	if releasedAt.Valid {
		tx.ReleasedAt = ptrTo(releasedAt.Time.UTC())
	}

	return tx, nil
}

func ptrTo[T any](v T) *T {
	return &v
}
