package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/solmarket/settler/internal/webhook/store"
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

func (p *PostgreSQL) CreateWebhook(ctx context.Context, webhook *store.Webhook) error {
	const q = `INSERT INTO settler.webhooks (id, user_id, url, secret_encrypted, event_types, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := p.db.ExecContext(ctx, q, webhook.ID, webhook.UserID, webhook.URL, webhook.SecretEncrypted,
		pq.Array(webhook.EventTypes), webhook.Active, p.now().UTC())
	return err
}

func (p *PostgreSQL) GetWebhook(ctx context.Context, id string) (*store.Webhook, error) {
	const q = selectWebhook + ` WHERE id = $1`

	return scanWebhook(p.db.QueryRowContext(ctx, q, id))
}

func (p *PostgreSQL) GetWebhooksByUser(ctx context.Context, userID string) ([]*store.Webhook, error) {
	const q = selectWebhook + ` WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := p.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var webhooks []*store.Webhook
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, w)
	}

	return webhooks, rows.Err()
}

func (p *PostgreSQL) UpdateWebhook(ctx context.Context, webhook *store.Webhook) error {
	const q = `UPDATE settler.webhooks
		SET url = $1
		,secret_encrypted = $2
		,event_types = $3
		,active = $4
		WHERE id = $5`

	result, err := p.db.ExecContext(ctx, q, webhook.URL, webhook.SecretEncrypted, pq.Array(webhook.EventTypes), webhook.Active, webhook.ID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (p *PostgreSQL) DeleteWebhook(ctx context.Context, id string) error {
	const q = `DELETE FROM settler.webhooks WHERE id = $1`

	result, err := p.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (p *PostgreSQL) GetSubscribers(ctx context.Context, eventType string) ([]*store.Webhook, error) {
	// An empty event_types array subscribes to everything.
	const q = selectWebhook + `
		WHERE active = TRUE
		AND (event_types = '{}' OR $1 = ANY(event_types))
		ORDER BY created_at ASC`

	rows, err := p.db.QueryContext(ctx, q, eventType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var webhooks []*store.Webhook
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, w)
	}

	return webhooks, rows.Err()
}

func (p *PostgreSQL) EnqueueDeliveries(ctx context.Context, deliveries []*store.Delivery) (err error) {
	if len(deliveries) == 0 {
		return nil
	}

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

	const q = `INSERT INTO settler.webhook_deliveries (id, webhook_id, event_id, event_type, payload, status, attempts, next_retry_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)`

	now := p.now().UTC()
	for _, d := range deliveries {
		_, err = tx.ExecContext(ctx, q, d.ID, d.WebhookID, d.EventID, d.EventType, d.Payload, store.DeliveryStatusPending, d.NextRetryAt, now)
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

func (p *PostgreSQL) ClaimDue(ctx context.Context, now time.Time, limit int) (tasks []*store.DeliveryTask, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = errors.Join(err, store.ErrFailedToRollback, rErr)
			}
		}
	}()

	// SKIP LOCKED lets concurrent dispatchers split the due set instead
	// of blocking on each other's rows.
	const q = `SELECT d.id
		,d.webhook_id
		,d.event_id
		,d.event_type
		,d.payload
		,d.status
		,d.attempts
		,d.next_retry_at
		,d.last_error
		,d.response_code
		,d.created_at
		,w.url
		,w.secret_encrypted
		FROM settler.webhook_deliveries d
		JOIN settler.webhooks w ON w.id = d.webhook_id
		WHERE d.status = ANY($1)
		AND d.next_retry_at <= $2
		AND w.active = TRUE
		ORDER BY d.next_retry_at ASC
		LIMIT $3
		FOR UPDATE OF d SKIP LOCKED`

	rows, err := tx.QueryContext(ctx, q, pq.Array([]string{store.DeliveryStatusPending, store.DeliveryStatusRetrying}), now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		task := &store.DeliveryTask{}
		var lastError sql.NullString
		var responseCode sql.NullInt32

		err = rows.Scan(&task.ID, &task.WebhookID, &task.EventID, &task.EventType, &task.Payload, &task.Status,
			&task.Attempts, &task.NextRetryAt, &lastError, &responseCode, &task.CreatedAt,
			&task.URL, &task.SecretEncrypted)
		if err != nil {
			return nil, err
		}

		if lastError.Valid {
			task.LastError = ptrTo(lastError.String)
		}
		if responseCode.Valid {
			task.ResponseCode = ptrTo(int(responseCode.Int32))
		}

		tasks = append(tasks, task)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}

	// Push next_retry_at forward so a crashed dispatcher's claims come
	// back on their own once the lease passes.
	const lease = `UPDATE settler.webhook_deliveries
		SET next_retry_at = $1
		WHERE id = ANY($2)`

	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}

	if len(ids) > 0 {
		_, err = tx.ExecContext(ctx, lease, now.Add(5*time.Minute), pq.Array(ids))
		if err != nil {
			return nil, err
		}
	}

	err = tx.Commit()
	if err != nil {
		return nil, errors.Join(store.ErrFailedToCommit, err)
	}

	return tasks, nil
}

func (p *PostgreSQL) MarkSucceeded(ctx context.Context, deliveryID string, responseCode int) (err error) {
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

	const q = `UPDATE settler.webhook_deliveries
		SET status = $1
		,attempts = attempts + 1
		,response_code = $2
		,last_error = NULL
		,delivered_at = $3
		WHERE id = $4
		RETURNING webhook_id`

	var webhookID string
	err = tx.QueryRowContext(ctx, q, store.DeliveryStatusSuccess, responseCode, now, deliveryID).Scan(&webhookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = store.ErrNotFound
		}
		return err
	}

	const bump = `UPDATE settler.webhooks
		SET total_deliveries = total_deliveries + 1
		,last_success_at = $1
		WHERE id = $2`

	_, err = tx.ExecContext(ctx, bump, now, webhookID)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return errors.Join(store.ErrFailedToCommit, err)
	}

	return nil
}

func (p *PostgreSQL) MarkFailed(ctx context.Context, deliveryID string, outcome store.FailureOutcome) (err error) {
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

	status := store.DeliveryStatusRetrying
	if outcome.Terminal {
		status = store.DeliveryStatusFailed
	}

	const q = `UPDATE settler.webhook_deliveries
		SET status = $1
		,attempts = $2
		,next_retry_at = $3
		,last_error = $4
		,response_code = $5
		WHERE id = $6
		RETURNING webhook_id`

	var webhookID string
	err = tx.QueryRowContext(ctx, q, status, outcome.Attempts, outcome.NextRetryAt, outcome.Error, outcome.ResponseCode, deliveryID).Scan(&webhookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = store.ErrNotFound
		}
		return err
	}

	// Aggregate counters move on every attempt, they are a health
	// signal rather than billing-grade accounting.
	const bump = `UPDATE settler.webhooks
		SET total_deliveries = total_deliveries + 1
		,total_failures = total_failures + 1
		,last_failure_at = $1
		WHERE id = $2`

	_, err = tx.ExecContext(ctx, bump, p.now().UTC(), webhookID)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return errors.Join(store.ErrFailedToCommit, err)
	}

	return nil
}

func (p *PostgreSQL) GetDeliveries(ctx context.Context, webhookID string, limit int) ([]*store.Delivery, error) {
	const q = `SELECT id
		,webhook_id
		,event_id
		,event_type
		,payload
		,status
		,attempts
		,next_retry_at
		,last_error
		,response_code
		,delivered_at
		,created_at
		FROM settler.webhook_deliveries
		WHERE webhook_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := p.db.QueryContext(ctx, q, webhookID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*store.Delivery
	for rows.Next() {
		d := &store.Delivery{}
		var lastError sql.NullString
		var responseCode sql.NullInt32
		var deliveredAt sql.NullTime

		err = rows.Scan(&d.ID, &d.WebhookID, &d.EventID, &d.EventType, &d.Payload, &d.Status,
			&d.Attempts, &d.NextRetryAt, &lastError, &responseCode, &deliveredAt, &d.CreatedAt)
		if err != nil {
			return nil, err
		}

		if lastError.Valid {
			d.LastError = ptrTo(lastError.String)
		}
		if responseCode.Valid {
			d.ResponseCode = ptrTo(int(responseCode.Int32))
		}
		if deliveredAt.Valid {
			d.DeliveredAt = ptrTo(deliveredAt.Time.UTC())
		}

		deliveries = append(deliveries, d)
	}

	return deliveries, rows.Err()
}

const selectWebhook = `SELECT id
	,user_id
	,url
	,secret_encrypted
	,event_types
	,active
	,total_deliveries
	,total_failures
	,last_success_at
	,last_failure_at
	,created_at
	FROM settler.webhooks`

type scanner interface {
	Scan(dest ...any) error
}

func scanWebhook(row scanner) (*store.Webhook, error) {
	w := &store.Webhook{}
	var lastSuccessAt, lastFailureAt sql.NullTime

	err := row.Scan(&w.ID, &w.UserID, &w.URL, &w.SecretEncrypted, pq.Array(&w.EventTypes), &w.Active,
		&w.TotalDeliveries, &w.TotalFailures, &lastSuccessAt, &lastFailureAt, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	if lastSuccessAt.Valid {
		w.LastSuccessAt = ptrTo(lastSuccessAt.Time.UTC())
	}
	if lastFailureAt.Valid {
		w.LastFailureAt = ptrTo(lastFailureAt.Time.UTC())
	}

	return w, nil
}

func ptrTo[T any](v T) *T {
	return &v
}
