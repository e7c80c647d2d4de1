package reconciler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solmarket/settler/internal/chain"
	chainmocks "github.com/solmarket/settler/internal/chain/mocks"
	"github.com/solmarket/settler/internal/store"
	storemocks "github.com/solmarket/settler/internal/store/mocks"
	"github.com/solmarket/settler/internal/webhook"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type capturingPublisher struct {
	events []webhook.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event webhook.Event) error {
	p.events = append(p.events, event)
	return nil
}

type fakeLocker struct {
	held     bool
	released int
}

func (l *fakeLocker) Acquire(string) (func(), bool, error) {
	if l.held {
		return nil, false, nil
	}
	return func() { l.released++ }, true, nil
}

func ptrTo[T any](v T) *T {
	return &v
}

func onChainTransaction(id string) *store.EscrowTransaction {
	return &store.EscrowTransaction{
		ID:                id,
		Status:            store.StatusAwaitingConfirmation,
		BuyerID:           "buyer-1",
		SellerID:          "seller-1",
		ListingID:         "listing-1",
		SaleAmount:        5_000_000,
		TransferStartedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EscrowAddress:     ptrTo("EscRow11111111111111111111111111"),
		ListingAddress:    ptrTo("List1ng1111111111111111111111111"),
		SellerAddress:     ptrTo("Se11er11111111111111111111111111"),
	}
}

func TestAutoRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled flag is a no-op", func(t *testing.T) {
		// given
		escrowStore := &storemocks.EscrowStoreMock{}
		sut := New(escrowStore, testLogger, WithAutoReleaseEnabled(false))

		// when
		result := sut.AutoRelease(ctx)

		// then
		assert.Equal(t, "auto release disabled", result.Message)
		assert.Empty(t, escrowStore.GetReleasableCalls())
	})

	t.Run("releases on-chain and off-chain candidates", func(t *testing.T) {
		// given
		now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
		offChain := &store.EscrowTransaction{
			ID:                "tx-off",
			Status:            store.StatusTransferInProgress,
			BuyerID:           "buyer-2",
			SellerID:          "seller-2",
			SaleAmount:        1_000,
			TransferStartedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		}

		var completions []store.Completion
		escrowStore := &storemocks.EscrowStoreMock{
			RevertStaleClaimsFunc: func(_ context.Context, olderThan time.Time) (int64, error) {
				assert.Equal(t, now.Add(-time.Hour), olderThan)
				return 1, nil
			},
			GetReleasableFunc: func(_ context.Context, olderThan time.Time, limit int) ([]*store.EscrowTransaction, error) {
				assert.Equal(t, now.Add(-7*24*time.Hour), olderThan)
				assert.Equal(t, 100, limit)
				return []*store.EscrowTransaction{onChainTransaction("tx-on"), offChain}, nil
			},
			ClaimForCompletionFunc: func(_ context.Context, _ string) (bool, error) {
				return true, nil
			},
			CompleteReleaseFunc: func(_ context.Context, completion store.Completion) error {
				completions = append(completions, completion)
				return nil
			},
		}

		chainClient := &chainmocks.ClientMock{
			SubmitInstructionFunc: func(_ context.Context, accounts []chain.AccountMeta, data []byte) (string, error) {
				require.Len(t, accounts, 4)
				assert.Equal(t, "authority-address", accounts[0].Address)
				assert.True(t, accounts[0].Signer)
				return "sig-release-1", nil
			},
		}

		publisher := &capturingPublisher{}
		sut := New(escrowStore, testLogger,
			WithNow(func() time.Time { return now }),
			WithChain(chainClient, "authority-address"),
			WithPublisher(publisher),
		)

		// when
		result := sut.AutoRelease(ctx)

		// then
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 2, result.Released)
		assert.Zero(t, result.Failed)
		assert.Empty(t, result.Errors)

		require.Len(t, chainClient.SubmitInstructionCalls(), 1, "off-chain record must not touch the gateway")

		require.Len(t, completions, 2)
		require.NotNil(t, completions[0].ChainSignature)
		assert.Equal(t, "sig-release-1", *completions[0].ChainSignature)
		assert.Nil(t, completions[1].ChainSignature)
		assert.True(t, completions[0].CountSale)
		require.Len(t, completions[0].Notifications, 2)

		require.Len(t, publisher.events, 2)
		assert.Equal(t, webhook.EventEscrowReleased, publisher.events[0].Type)
	})

	t.Run("concurrently claimed record is skipped without error", func(t *testing.T) {
		escrowStore := &storemocks.EscrowStoreMock{
			RevertStaleClaimsFunc: func(context.Context, time.Time) (int64, error) { return 0, nil },
			GetReleasableFunc: func(context.Context, time.Time, int) ([]*store.EscrowTransaction, error) {
				return []*store.EscrowTransaction{onChainTransaction("tx-1")}, nil
			},
			ClaimForCompletionFunc: func(context.Context, string) (bool, error) {
				return false, nil
			},
		}

		sut := New(escrowStore, testLogger)

		result := sut.AutoRelease(ctx)

		assert.Equal(t, 1, result.Processed)
		assert.Zero(t, result.Released)
		assert.Zero(t, result.Failed)
		assert.Empty(t, escrowStore.CompleteReleaseCalls())
	})

	t.Run("chain failure reverts the claim", func(t *testing.T) {
		// given
		escrowStore := &storemocks.EscrowStoreMock{
			RevertStaleClaimsFunc: func(context.Context, time.Time) (int64, error) { return 0, nil },
			GetReleasableFunc: func(context.Context, time.Time, int) ([]*store.EscrowTransaction, error) {
				return []*store.EscrowTransaction{onChainTransaction("tx-1")}, nil
			},
			ClaimForCompletionFunc: func(context.Context, string) (bool, error) { return true, nil },
			RevertClaimFunc:        func(context.Context, string) error { return nil },
		}

		chainClient := &chainmocks.ClientMock{
			SubmitInstructionFunc: func(context.Context, []chain.AccountMeta, []byte) (string, error) {
				return "", chain.ErrTxUnconfirmed
			},
		}

		publisher := &capturingPublisher{}
		sut := New(escrowStore, testLogger,
			WithChain(chainClient, "authority-address"),
			WithPublisher(publisher),
		)

		// when
		result := sut.AutoRelease(ctx)

		// then
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "tx-1")

		require.Len(t, escrowStore.RevertClaimCalls(), 1)
		assert.Empty(t, escrowStore.CompleteReleaseCalls())
		assert.Empty(t, publisher.events, "no event before a successful commit")
	})

	t.Run("commit failure leaves row for the stale sweep", func(t *testing.T) {
		escrowStore := &storemocks.EscrowStoreMock{
			RevertStaleClaimsFunc: func(context.Context, time.Time) (int64, error) { return 0, nil },
			GetReleasableFunc: func(context.Context, time.Time, int) ([]*store.EscrowTransaction, error) {
				return []*store.EscrowTransaction{onChainTransaction("tx-1")}, nil
			},
			ClaimForCompletionFunc: func(context.Context, string) (bool, error) { return true, nil },
			CompleteReleaseFunc: func(context.Context, store.Completion) error {
				return errors.New("connection reset")
			},
		}

		publisher := &capturingPublisher{}
		sut := New(escrowStore, testLogger, WithPublisher(publisher))

		result := sut.AutoRelease(ctx)

		assert.Equal(t, 1, result.Failed)
		assert.Empty(t, escrowStore.RevertClaimCalls(), "commit failures are not reverted, the sweep recovers them")
		assert.Empty(t, publisher.events)
	})

	t.Run("non-positive amount completes without counters", func(t *testing.T) {
		tx := onChainTransaction("tx-zero")
		tx.SaleAmount = 0
		tx.EscrowAddress = nil

		var completion store.Completion
		escrowStore := &storemocks.EscrowStoreMock{
			RevertStaleClaimsFunc: func(context.Context, time.Time) (int64, error) { return 0, nil },
			GetReleasableFunc: func(context.Context, time.Time, int) ([]*store.EscrowTransaction, error) {
				return []*store.EscrowTransaction{tx}, nil
			},
			ClaimForCompletionFunc: func(context.Context, string) (bool, error) { return true, nil },
			CompleteReleaseFunc: func(_ context.Context, c store.Completion) error {
				completion = c
				return nil
			},
		}

		sut := New(escrowStore, testLogger)

		result := sut.AutoRelease(ctx)

		assert.Equal(t, 1, result.Released)
		assert.False(t, completion.CountSale)
	})

	t.Run("negative amount releases zero on chain", func(t *testing.T) {
		tx := onChainTransaction("tx-negative")
		tx.SaleAmount = -5_000_000

		var completion store.Completion
		escrowStore := &storemocks.EscrowStoreMock{
			RevertStaleClaimsFunc: func(context.Context, time.Time) (int64, error) { return 0, nil },
			GetReleasableFunc: func(context.Context, time.Time, int) ([]*store.EscrowTransaction, error) {
				return []*store.EscrowTransaction{tx}, nil
			},
			ClaimForCompletionFunc: func(context.Context, string) (bool, error) { return true, nil },
			CompleteReleaseFunc: func(_ context.Context, c store.Completion) error {
				completion = c
				return nil
			},
		}

		var submitted []byte
		chainClient := &chainmocks.ClientMock{
			SubmitInstructionFunc: func(_ context.Context, _ []chain.AccountMeta, data []byte) (string, error) {
				submitted = data
				return "sig-release-2", nil
			},
		}

		sut := New(escrowStore, testLogger, WithChain(chainClient, "authority-address"))

		result := sut.AutoRelease(ctx)

		assert.Equal(t, 1, result.Released)
		assert.False(t, completion.CountSale)

		// instruction data is the discriminator byte plus the amount, which
		// must not wrap to a huge unsigned value
		require.Len(t, submitted, 9)
		assert.Equal(t, make([]byte, 8), submitted[1:])
	})

	t.Run("sweep failure does not abort the run", func(t *testing.T) {
		escrowStore := &storemocks.EscrowStoreMock{
			RevertStaleClaimsFunc: func(context.Context, time.Time) (int64, error) {
				return 0, errors.New("sweep failed")
			},
			GetReleasableFunc: func(context.Context, time.Time, int) ([]*store.EscrowTransaction, error) {
				return nil, nil
			},
		}

		sut := New(escrowStore, testLogger)

		result := sut.AutoRelease(ctx)

		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "stale claim sweep")
		require.Len(t, escrowStore.GetReleasableCalls(), 1)
	})
}

func TestExpireWithdrawals(t *testing.T) {
	ctx := context.Background()

	onChainWithdrawal := func(id string) *store.PendingWithdrawal {
		return &store.PendingWithdrawal{
			ID:                id,
			UserID:            "bidder-1",
			ListingID:         "listing-1",
			Amount:            2_500_000,
			CreatedAt:         time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC),
			WithdrawalID:      42,
			ListingAddress:    ptrTo("List1ng1111111111111111111111111"),
			EscrowAddress:     ptrTo("EscRow11111111111111111111111111"),
			WithdrawalAddress: ptrTo("W1thdr4w111111111111111111111111"),
			RecipientAddress:  ptrTo("Rec1p1ent11111111111111111111111"),
		}
	}

	t.Run("no authority configured claims without chain calls", func(t *testing.T) {
		// given
		var notifications []store.Notification
		escrowStore := &storemocks.EscrowStoreMock{
			GetExpiredWithdrawalsFunc: func(_ context.Context, _ time.Time, limit int) ([]*store.PendingWithdrawal, error) {
				assert.Equal(t, 10, limit)
				return []*store.PendingWithdrawal{onChainWithdrawal("wd-1")}, nil
			},
			ClaimWithdrawalFunc: func(_ context.Context, id string, chainSynced bool) (bool, error) {
				assert.True(t, chainSynced)
				return true, nil
			},
			InsertNotificationFunc: func(_ context.Context, n store.Notification) error {
				notifications = append(notifications, n)
				return nil
			},
		}

		publisher := &capturingPublisher{}
		sut := New(escrowStore, testLogger, WithPublisher(publisher))

		// when
		result := sut.ExpireWithdrawals(ctx)

		// then
		assert.Equal(t, 1, result.Processed)
		assert.Equal(t, 1, result.Released)
		assert.Zero(t, result.Failed)

		require.Len(t, notifications, 1)
		assert.Equal(t, "WITHDRAWAL_EXPIRED", notifications[0].Kind)
		assert.Equal(t, "bidder-1", notifications[0].UserID)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, webhook.EventWithdrawalExpired, publisher.events[0].Type)
	})

	t.Run("chain failure still claims with chain_synced false", func(t *testing.T) {
		var claimedSynced *bool
		escrowStore := &storemocks.EscrowStoreMock{
			GetExpiredWithdrawalsFunc: func(context.Context, time.Time, int) ([]*store.PendingWithdrawal, error) {
				return []*store.PendingWithdrawal{onChainWithdrawal("wd-1")}, nil
			},
			ClaimWithdrawalFunc: func(_ context.Context, _ string, chainSynced bool) (bool, error) {
				claimedSynced = &chainSynced
				return true, nil
			},
			InsertNotificationFunc: func(context.Context, store.Notification) error { return nil },
		}

		chainClient := &chainmocks.ClientMock{
			SubmitInstructionFunc: func(context.Context, []chain.AccountMeta, []byte) (string, error) {
				return "", chain.ErrTxRejected
			},
		}

		sut := New(escrowStore, testLogger, WithChain(chainClient, "authority-address"))

		result := sut.ExpireWithdrawals(ctx)

		assert.Equal(t, 1, result.Released)
		require.Len(t, result.Errors, 1)
		require.NotNil(t, claimedSynced)
		assert.False(t, *claimedSynced)
		require.Len(t, escrowStore.InsertNotificationCalls(), 1, "notification goes out regardless of chain outcome")
	})

	t.Run("already claimed withdrawal is skipped", func(t *testing.T) {
		escrowStore := &storemocks.EscrowStoreMock{
			GetExpiredWithdrawalsFunc: func(context.Context, time.Time, int) ([]*store.PendingWithdrawal, error) {
				return []*store.PendingWithdrawal{onChainWithdrawal("wd-1")}, nil
			},
			ClaimWithdrawalFunc: func(context.Context, string, bool) (bool, error) {
				return false, nil
			},
		}

		publisher := &capturingPublisher{}
		sut := New(escrowStore, testLogger, WithPublisher(publisher))

		result := sut.ExpireWithdrawals(ctx)

		assert.Equal(t, 1, result.Processed)
		assert.Zero(t, result.Released)
		assert.Empty(t, escrowStore.InsertNotificationCalls())
		assert.Empty(t, publisher.events)
	})
}

func TestQualifyBadges(t *testing.T) {
	ctx := context.Background()

	t.Run("held lock is a normal skip", func(t *testing.T) {
		escrowStore := &storemocks.EscrowStoreMock{}
		sut := New(escrowStore, testLogger, WithLocker(&fakeLocker{held: true}))

		result := sut.QualifyBadges(ctx)

		assert.Equal(t, "still running", result.Message)
		assert.Empty(t, result.Errors)
		assert.Empty(t, escrowStore.GetBadgeCandidatesCalls())
	})

	t.Run("assigns badges by sales count", func(t *testing.T) {
		// given
		locker := &fakeLocker{}
		badges := map[string]string{}
		escrowStore := &storemocks.EscrowStoreMock{
			GetBadgeCandidatesFunc: func(_ context.Context, minSales int64, _ int) ([]*store.SellerRecord, error) {
				assert.Equal(t, int64(trustedSellerMinSales), minSales)
				return []*store.SellerRecord{
					{UserID: "seller-top", SalesCount: 60},
					{UserID: "seller-unchanged", SalesCount: 12, Badge: ptrTo(badgeTrustedSeller)},
					{UserID: "seller-rising", SalesCount: 15},
				}, nil
			},
			SetSellerBadgeFunc: func(_ context.Context, userID, badge string) error {
				badges[userID] = badge
				return nil
			},
		}

		sut := New(escrowStore, testLogger, WithLocker(locker))

		// when
		result := sut.QualifyBadges(ctx)

		// then
		assert.Equal(t, 3, result.Processed)
		assert.Equal(t, 2, result.Released)
		assert.Empty(t, result.Errors)
		assert.Equal(t, map[string]string{
			"seller-top":    badgeTopSeller,
			"seller-rising": badgeTrustedSeller,
		}, badges)
		assert.Equal(t, 1, locker.released, "lock released after the run")
	})

	t.Run("transient write failure is retried", func(t *testing.T) {
		var attempts int
		escrowStore := &storemocks.EscrowStoreMock{
			GetBadgeCandidatesFunc: func(context.Context, int64, int) ([]*store.SellerRecord, error) {
				return []*store.SellerRecord{{UserID: "seller-1", SalesCount: 20}}, nil
			},
			SetSellerBadgeFunc: func(context.Context, string, string) error {
				attempts++
				if attempts < 3 {
					return errors.New("transient")
				}
				return nil
			},
		}

		sut := New(escrowStore, testLogger, WithLocker(&fakeLocker{}))

		result := sut.QualifyBadges(ctx)

		assert.Equal(t, 1, result.Released)
		assert.Empty(t, result.Errors)
		assert.Equal(t, 3, attempts)
	})

	t.Run("persistent failure is accumulated, siblings continue", func(t *testing.T) {
		escrowStore := &storemocks.EscrowStoreMock{
			GetBadgeCandidatesFunc: func(context.Context, int64, int) ([]*store.SellerRecord, error) {
				return []*store.SellerRecord{
					{UserID: "seller-bad", SalesCount: 20},
					{UserID: "seller-good", SalesCount: 60},
				}, nil
			},
			SetSellerBadgeFunc: func(_ context.Context, userID, _ string) error {
				if userID == "seller-bad" {
					return errors.New("permanent")
				}
				return nil
			},
		}

		sut := New(escrowStore, testLogger, WithLocker(&fakeLocker{}))

		result := sut.QualifyBadges(ctx)

		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 1, result.Released)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "seller-bad")
	})
}
