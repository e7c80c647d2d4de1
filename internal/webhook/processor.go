package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solmarket/settler/internal/webhook/store"
)

const (
	defaultMaxAttempts    = 5
	defaultRetryBaseDelay = 30 * time.Second
	defaultRetryMaxDelay  = 30 * time.Minute
	defaultBatchSize      = 50
)

var ErrFailedToPublish = errors.New("failed to publish event")

// Processor fans events out to subscribed webhooks and dispatches the
// resulting deliveries with exponential retry.
type Processor struct {
	store          store.WebhookStore
	sender         *Sender
	cipher         *SecretCipher
	logger         *slog.Logger
	stats          *processorStats
	now            func() time.Time
	maxAttempts    int
	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
	batchSize      int

	cancelAll context.CancelFunc
	ctx       context.Context
	wg        sync.WaitGroup
}

func WithNow(nowFunc func() time.Time) func(*Processor) {
	return func(p *Processor) {
		p.now = nowFunc
	}
}

func WithMaxAttempts(maxAttempts int) func(*Processor) {
	return func(p *Processor) {
		p.maxAttempts = maxAttempts
	}
}

func WithRetryDelays(base, max time.Duration) func(*Processor) {
	return func(p *Processor) {
		p.retryBaseDelay = base
		p.retryMaxDelay = max
	}
}

func WithBatchSize(batchSize int) func(*Processor) {
	return func(p *Processor) {
		p.batchSize = batchSize
	}
}

func NewProcessor(webhookStore store.WebhookStore, sender *Sender, cipher *SecretCipher, logger *slog.Logger, opts ...func(*Processor)) (*Processor, error) {
	p := &Processor{
		store:          webhookStore,
		sender:         sender,
		cipher:         cipher,
		logger:         logger.With(slog.String("module", "webhook-processor")),
		stats:          newProcessorStats(),
		now:            time.Now,
		maxAttempts:    defaultMaxAttempts,
		retryBaseDelay: defaultRetryBaseDelay,
		retryMaxDelay:  defaultRetryMaxDelay,
		batchSize:      defaultBatchSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	err := registerStats(
		p.stats.eventsPublished,
		p.stats.deliverySuccess,
		p.stats.deliveryRetried,
		p.stats.deliveryFailed,
		p.stats.deliveriesClaimed,
		p.stats.deliveriesEnqueued,
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.ctx = ctx
	p.cancelAll = cancel

	return p, nil
}

// Publish writes one delivery per subscribed webhook. Deliveries are
// due immediately; the dispatch loop picks them up.
func (p *Processor) Publish(ctx context.Context, event Event) error {
	subscribers, err := p.store.GetSubscribers(ctx, string(event.Type))
	if err != nil {
		return errors.Join(ErrFailedToPublish, err)
	}
	if len(subscribers) == 0 {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Join(ErrFailedToPublish, err)
	}

	now := p.now().UTC()
	deliveries := make([]*store.Delivery, 0, len(subscribers))
	for _, subscriber := range subscribers {
		// The store already filters by event type, re-check here so a
		// subscriber lookup bug cannot leak events to the wrong endpoint.
		if !subscriber.SubscribedTo(string(event.Type)) {
			p.logger.Warn("subscriber does not match event type", slog.String("webhook", subscriber.ID), slog.String("type", string(event.Type)))
			continue
		}
		deliveries = append(deliveries, &store.Delivery{
			ID:          uuid.NewString(),
			WebhookID:   subscriber.ID,
			EventID:     event.ID,
			EventType:   string(event.Type),
			Payload:     payload,
			NextRetryAt: now,
		})
	}

	err = p.store.EnqueueDeliveries(ctx, deliveries)
	if err != nil {
		return errors.Join(ErrFailedToPublish, err)
	}

	p.stats.eventsPublished.Inc()
	p.stats.deliveriesEnqueued.Add(float64(len(deliveries)))

	return nil
}

// ProcessDue claims and sends a batch of due deliveries. It returns
// the number of deliveries attempted.
func (p *Processor) ProcessDue(ctx context.Context) (int, error) {
	tasks, err := p.store.ClaimDue(ctx, p.now().UTC(), p.batchSize)
	if err != nil {
		return 0, err
	}
	if len(tasks) == 0 {
		return 0, nil
	}

	p.stats.deliveriesClaimed.Add(float64(len(tasks)))

	for _, task := range tasks {
		p.dispatch(ctx, task)
	}

	return len(tasks), nil
}

func (p *Processor) dispatch(ctx context.Context, task *store.DeliveryTask) {
	secret, err := p.cipher.Decrypt(task.SecretEncrypted)
	if err != nil {
		p.logger.Error("failed to decrypt webhook secret", slog.String("webhook", task.WebhookID), slog.String("err", err.Error()))
		p.fail(ctx, task, SendResult{Retriable: false, Error: "secret decryption failed"})
		return
	}

	result := p.sender.Send(ctx, task.URL, secret, task.Payload)
	if result.Success {
		err = p.store.MarkSucceeded(ctx, task.ID, *result.ResponseCode)
		if err != nil {
			p.logger.Error("failed to mark delivery succeeded", slog.String("delivery", task.ID), slog.String("err", err.Error()))
			return
		}
		p.stats.deliverySuccess.Inc()
		return
	}

	p.fail(ctx, task, result)
}

func (p *Processor) fail(ctx context.Context, task *store.DeliveryTask, result SendResult) {
	attempts := task.Attempts + 1
	terminal := !result.Retriable || attempts >= p.maxAttempts

	outcome := store.FailureOutcome{
		Attempts:     attempts,
		NextRetryAt:  p.now().UTC().Add(p.retryDelay(attempts)),
		ResponseCode: result.ResponseCode,
		Error:        result.Error,
		Terminal:     terminal,
	}

	err := p.store.MarkFailed(ctx, task.ID, outcome)
	if err != nil {
		p.logger.Error("failed to mark delivery failed", slog.String("delivery", task.ID), slog.String("err", err.Error()))
		return
	}

	if terminal {
		p.stats.deliveryFailed.Inc()
		p.logger.Warn("delivery failed permanently",
			slog.String("delivery", task.ID),
			slog.String("webhook", task.WebhookID),
			slog.Int("attempts", attempts),
			slog.String("err", result.Error),
		)
		return
	}

	p.stats.deliveryRetried.Inc()
}

// retryDelay doubles per attempt from the base delay, capped at the
// max delay.
func (p *Processor) retryDelay(attempts int) time.Duration {
	delay := p.retryBaseDelay
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= p.retryMaxDelay {
			return p.retryMaxDelay
		}
	}
	if delay > p.retryMaxDelay {
		return p.retryMaxDelay
	}
	return delay
}

// StartDispatch runs ProcessDue on the given interval until Shutdown.
func (p *Processor) StartDispatch(interval time.Duration) {
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-p.ctx.Done():
				return
			case <-ticker.C:
				_, err := p.ProcessDue(p.ctx)
				if err != nil && !errors.Is(err, context.Canceled) {
					p.logger.Error("failed to process due deliveries", slog.String("err", err.Error()))
				}
			}
		}
	}()
}

func (p *Processor) Shutdown() {
	p.cancelAll()
	p.wg.Wait()

	unregisterStats(
		p.stats.eventsPublished,
		p.stats.deliverySuccess,
		p.stats.deliveryRetried,
		p.stats.deliveryFailed,
		p.stats.deliveriesClaimed,
		p.stats.deliveriesEnqueued,
	)
}
