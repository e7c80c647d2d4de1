package postgresql

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"testing"
	"time"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solmarket/settler/internal/store"
	testutils "github.com/solmarket/settler/pkg/test_utils"
)

const (
	migrationsPath = "file://migrations"
)

var dbInfo string

func TestMain(m *testing.M) {
	flag.Parse()

	if testing.Short() {
		return
	}

	testmain(m)
}

func testmain(m *testing.M) int {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("failed to create pool: %v", err)
		return 1
	}

	port := "5437"
	resource, connStr, err := testutils.RunAndMigratePostgresql(pool, port, "ledger", migrationsPath)
	if err != nil {
		log.Print(err)
		return 1
	}
	defer func() {
		err = pool.Purge(resource)
		if err != nil {
			log.Fatalf("failed to purge pool: %v", err)
		}
	}()

	dbInfo = connStr
	return m.Run()
}

func TestPostgresDB(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	postgresDB, err := New(dbInfo, 10, 10, WithNow(func() time.Time { return now }))
	require.NoError(t, err)
	defer postgresDB.Close()

	t.Run("get releasable", func(t *testing.T) {
		// given
		defer pruneTables(t, postgresDB.db)
		testutils.LoadFixtures(t, postgresDB.db, "fixtures/escrow")

		// when
		transactions, err := postgresDB.GetReleasable(ctx, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), 10)

		// then
		require.NoError(t, err)
		require.Len(t, transactions, 2)
		assert.Equal(t, "tx-transfer-oldest", transactions[0].ID, "expected oldest first")
		assert.Equal(t, "tx-awaiting-old", transactions[1].ID)
		assert.True(t, transactions[1].OnChain())
		assert.False(t, transactions[0].OnChain())
	})

	t.Run("claim for completion", func(t *testing.T) {
		defer pruneTables(t, postgresDB.db)
		testutils.LoadFixtures(t, postgresDB.db, "fixtures/escrow")

		claimed, err := postgresDB.ClaimForCompletion(ctx, "tx-awaiting-old")
		require.NoError(t, err)
		assert.True(t, claimed)

		// a second claim affects zero rows
		claimed, err = postgresDB.ClaimForCompletion(ctx, "tx-awaiting-old")
		require.NoError(t, err)
		assert.False(t, claimed)

		// disputed and terminal rows are not claimable
		claimed, err = postgresDB.ClaimForCompletion(ctx, "tx-disputed")
		require.NoError(t, err)
		assert.False(t, claimed)

		claimed, err = postgresDB.ClaimForCompletion(ctx, "tx-completed")
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("revert claim", func(t *testing.T) {
		defer pruneTables(t, postgresDB.db)
		testutils.LoadFixtures(t, postgresDB.db, "fixtures/escrow")

		claimed, err := postgresDB.ClaimForCompletion(ctx, "tx-awaiting-old")
		require.NoError(t, err)
		require.True(t, claimed)

		err = postgresDB.RevertClaim(ctx, "tx-awaiting-old")
		require.NoError(t, err)

		assert.Equal(t, store.StatusAwaitingConfirmation, getStatus(t, postgresDB.db, "tx-awaiting-old"))

		// reverting an unclaimed row is an error
		err = postgresDB.RevertClaim(ctx, "tx-transfer-oldest")
		require.ErrorIs(t, err, store.ErrNotClaimed)
	})

	t.Run("revert stale claims", func(t *testing.T) {
		defer pruneTables(t, postgresDB.db)
		testutils.LoadFixtures(t, postgresDB.db, "fixtures/escrow")

		claimed, err := postgresDB.ClaimForCompletion(ctx, "tx-awaiting-old")
		require.NoError(t, err)
		require.True(t, claimed)

		// a claim from the current run is not stale
		reverted, err := postgresDB.RevertStaleClaims(ctx, now.Add(-time.Hour))
		require.NoError(t, err)
		assert.EqualValues(t, 0, reverted)

		reverted, err = postgresDB.RevertStaleClaims(ctx, now.Add(time.Hour))
		require.NoError(t, err)
		assert.EqualValues(t, 1, reverted)

		assert.Equal(t, store.StatusAwaitingConfirmation, getStatus(t, postgresDB.db, "tx-awaiting-old"))
	})

	t.Run("complete release", func(t *testing.T) {
		defer pruneTables(t, postgresDB.db)
		testutils.LoadFixtures(t, postgresDB.db, "fixtures/escrow")

		claimed, err := postgresDB.ClaimForCompletion(ctx, "tx-awaiting-old")
		require.NoError(t, err)
		require.True(t, claimed)

		completion := store.Completion{
			TransactionID:  "tx-awaiting-old",
			SellerID:       "seller-1",
			BuyerID:        "buyer-1",
			SaleAmount:     5000000,
			ChainSignature: ptrTo("5j7s6NiJS3JAkvgkoc18WVAsiSaci2pxB2A6ueCJP4tprA2TFg9wSyTLeYouxPBJEMzJinENTkpA52YStRW5Dia7"),
			CountSale:      true,
			Notifications: []store.Notification{
				{UserID: "seller-1", Kind: "ESCROW_RELEASED", Message: "Funds released", ReferenceID: "tx-awaiting-old"},
				{UserID: "buyer-1", Kind: "SALE_COMPLETED", Message: "Sale completed", ReferenceID: "tx-awaiting-old"},
			},
		}

		err = postgresDB.CompleteRelease(ctx, completion)
		require.NoError(t, err)

		assert.Equal(t, store.StatusCompleted, getStatus(t, postgresDB.db, "tx-awaiting-old"))

		var salesCount, totalVolume int64
		err = postgresDB.db.QueryRow("SELECT sales_count, total_volume FROM settler.user_stats WHERE user_id = 'seller-1'").Scan(&salesCount, &totalVolume)
		require.NoError(t, err)
		assert.EqualValues(t, 1, salesCount)
		assert.EqualValues(t, 5000000, totalVolume)

		var purchases int64
		err = postgresDB.db.QueryRow("SELECT purchases_count FROM settler.user_stats WHERE user_id = 'buyer-1'").Scan(&purchases)
		require.NoError(t, err)
		assert.EqualValues(t, 1, purchases)

		var notifications int64
		err = postgresDB.db.QueryRow("SELECT count(*) FROM settler.notifications WHERE reference_id = 'tx-awaiting-old'").Scan(&notifications)
		require.NoError(t, err)
		assert.EqualValues(t, 2, notifications)

		// completing an unclaimed row fails and leaves no partial writes
		err = postgresDB.CompleteRelease(ctx, store.Completion{TransactionID: "tx-transfer-oldest", SellerID: "seller-2", BuyerID: "buyer-2", CountSale: true})
		require.ErrorIs(t, err, store.ErrNotClaimed)

		var sellerRows int64
		err = postgresDB.db.QueryRow("SELECT count(*) FROM settler.user_stats WHERE user_id = 'seller-2'").Scan(&sellerRows)
		require.NoError(t, err)
		assert.EqualValues(t, 0, sellerRows)
	})

	t.Run("complete release without counters", func(t *testing.T) {
		defer pruneTables(t, postgresDB.db)
		testutils.LoadFixtures(t, postgresDB.db, "fixtures/escrow")

		claimed, err := postgresDB.ClaimForCompletion(ctx, "tx-transfer-oldest")
		require.NoError(t, err)
		require.True(t, claimed)

		err = postgresDB.CompleteRelease(ctx, store.Completion{
			TransactionID: "tx-transfer-oldest",
			SellerID:      "seller-2",
			BuyerID:       "buyer-2",
			SaleAmount:    -1,
			CountSale:     false,
		})
		require.NoError(t, err)

		assert.Equal(t, store.StatusCompleted, getStatus(t, postgresDB.db, "tx-transfer-oldest"))

		var statRows int64
		err = postgresDB.db.QueryRow("SELECT count(*) FROM settler.user_stats").Scan(&statRows)
		require.NoError(t, err)
		assert.EqualValues(t, 0, statRows, "invalid amounts must not touch counters")
	})

	t.Run("expired withdrawals", func(t *testing.T) {
		defer pruneTables(t, postgresDB.db)
		testutils.LoadFixtures(t, postgresDB.db, "fixtures/withdrawals")

		withdrawals, err := postgresDB.GetExpiredWithdrawals(ctx, now.Add(-time.Hour), 10)
		require.NoError(t, err)
		require.Len(t, withdrawals, 2)
		assert.Equal(t, "wd-unclaimed-offchain", withdrawals[0].ID, "expected oldest first")
		assert.Equal(t, "wd-unclaimed-old", withdrawals[1].ID)
		assert.True(t, withdrawals[1].OnChain())
		assert.False(t, withdrawals[0].OnChain())

		claimed, err := postgresDB.ClaimWithdrawal(ctx, "wd-unclaimed-old", false)
		require.NoError(t, err)
		assert.True(t, claimed)

		// exactly once
		claimed, err = postgresDB.ClaimWithdrawal(ctx, "wd-unclaimed-old", true)
		require.NoError(t, err)
		assert.False(t, claimed)

		var chainSynced bool
		var claimedAt sql.NullTime
		err = postgresDB.db.QueryRow("SELECT chain_synced, claimed_at FROM settler.pending_withdrawals WHERE id = 'wd-unclaimed-old'").Scan(&chainSynced, &claimedAt)
		require.NoError(t, err)
		assert.False(t, chainSynced)
		assert.True(t, claimedAt.Valid)
	})

	t.Run("badges", func(t *testing.T) {
		defer pruneTables(t, postgresDB.db)
		testutils.LoadFixtures(t, postgresDB.db, "fixtures/badges")

		candidates, err := postgresDB.GetBadgeCandidates(ctx, 10, 10)
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, "seller-established", candidates[0].UserID)
		assert.Equal(t, "seller-rising", candidates[1].UserID)

		err = postgresDB.SetSellerBadge(ctx, "seller-established", "established")
		require.NoError(t, err)

		var badge string
		err = postgresDB.db.QueryRow("SELECT badge FROM settler.user_stats WHERE user_id = 'seller-established'").Scan(&badge)
		require.NoError(t, err)
		assert.Equal(t, "established", badge)

		err = postgresDB.SetSellerBadge(ctx, "seller-unknown", "rising")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("insert notification", func(t *testing.T) {
		defer pruneTables(t, postgresDB.db)

		err := postgresDB.InsertNotification(ctx, store.Notification{
			UserID:      "bidder-1",
			Kind:        "WITHDRAWAL_EXPIRED",
			Message:     "Your withdrawal was returned",
			ReferenceID: "wd-1",
		})
		require.NoError(t, err)

		var count int64
		err = postgresDB.db.QueryRow("SELECT count(*) FROM settler.notifications WHERE user_id = 'bidder-1'").Scan(&count)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func getStatus(t *testing.T, db *sql.DB, id string) store.EscrowStatus {
	t.Helper()

	var status string
	err := db.QueryRow("SELECT status FROM settler.escrow_transactions WHERE id = $1", id).Scan(&status)
	require.NoError(t, err)
	return store.EscrowStatus(status)
}

func pruneTables(t *testing.T, db *sql.DB) {
	t.Helper()

	testutils.PruneTables(t, db,
		"settler.escrow_transactions",
		"settler.pending_withdrawals",
		"settler.user_stats",
		"settler.notifications",
	)
}
