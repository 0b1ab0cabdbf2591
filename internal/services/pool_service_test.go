package services

import (
	"testing"
	"time"

	"esusu/internal/models"
	"esusu/internal/testutil"
)

func TestGetPoolInfo(t *testing.T) {
	t.Run("sums_completed_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPoolService(db, NewRotationService(db))
		admin := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, admin.ID, models.FrequencyWeekly, 5000)
		testutil.AddTestMember(t, db, circle.ID, member.ID, false)

		now := time.Now()
		testutil.CreateTestContribution(t, db, circle.ID, admin.ID, models.TransactionStatusCompleted, 5000, now, nil)
		testutil.CreateTestContribution(t, db, circle.ID, member.ID, models.TransactionStatusCompleted, 5000, now, nil)
		testutil.CreateTestContribution(t, db, circle.ID, member.ID, models.TransactionStatusPending, 5000, now.AddDate(0, 0, 7), nil)
		testutil.CreateTestContribution(t, db, circle.ID, admin.ID, models.TransactionStatusFailed, 5000, now.AddDate(0, 0, 7), nil)
		testutil.CreateTestPayout(t, db, circle.ID, admin.ID, models.TransactionStatusCompleted, 4000, now)
		testutil.CreateTestPayout(t, db, circle.ID, member.ID, models.TransactionStatusPending, 9000, now)

		info, err := svc.GetPoolInfo(admin.ID, circle.ID)
		testutil.AssertNoError(t, err)

		if info.TotalPool != 10000 {
			t.Errorf("expected total pool 10000, got %d", info.TotalPool)
		}
		if info.TotalPaid != 4000 {
			t.Errorf("expected total paid 4000, got %d", info.TotalPaid)
		}
		if info.AvailablePool != 6000 {
			t.Errorf("expected available pool 6000, got %d", info.AvailablePool)
		}
	})

	t.Run("empty_ledger", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPoolService(db, NewRotationService(db))
		user := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, user.ID, models.FrequencyWeekly, 5000)

		info, err := svc.GetPoolInfo(user.ID, circle.ID)
		testutil.AssertNoError(t, err)

		if info.TotalPool != 0 || info.TotalPaid != 0 || info.AvailablePool != 0 {
			t.Errorf("expected zero balances, got %+v", info)
		}
		if len(info.PayoutHistory) != 0 {
			t.Errorf("expected empty payout history, got %d entries", len(info.PayoutHistory))
		}
		if info.NextPayoutMember != nil {
			t.Error("no next payout before rotation initialization")
		}
	})

	t.Run("negative_pool_is_integrity_failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPoolService(db, NewRotationService(db))
		user := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, user.ID, models.FrequencyWeekly, 5000)

		testutil.CreateTestPayout(t, db, circle.ID, user.ID, models.TransactionStatusCompleted, 5000, time.Now())

		_, err := svc.GetPoolInfo(user.ID, circle.ID)
		testutil.AssertAppError(t, err, "LEDGER_INTEGRITY")
	})

	t.Run("payout_history_recent_first_capped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPoolService(db, NewRotationService(db))
		user := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, user.ID, models.FrequencyWeekly, 5000)

		base := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
		for i := 0; i < 12; i++ {
			start := base.AddDate(0, 0, 7*i)
			testutil.CreateTestContribution(t, db, circle.ID, user.ID, models.TransactionStatusCompleted, 5000, start, &start)
			testutil.CreateTestPayout(t, db, circle.ID, user.ID, models.TransactionStatusFailed, 5000, start)
		}

		info, err := svc.GetPoolInfo(user.ID, circle.ID)
		testutil.AssertNoError(t, err)

		if len(info.PayoutHistory) != payoutHistoryLimit {
			t.Fatalf("expected history capped at %d, got %d", payoutHistoryLimit, len(info.PayoutHistory))
		}
		for i := 1; i < len(info.PayoutHistory); i++ {
			if info.PayoutHistory[i].TransactionDate.After(info.PayoutHistory[i-1].TransactionDate) {
				t.Fatal("history must be ordered newest first")
			}
		}
	})

	t.Run("includes_next_payout_after_initialization", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rotation := NewRotationService(db)
		svc := NewPoolService(db, rotation)
		user := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, user.ID, models.FrequencyWeekly, 5000)
		testutil.SetCircleStatus(t, db, circle.ID, models.CircleStatusActive)

		_, err := rotation.Initialize(circle.ID, user.ID)
		testutil.AssertNoError(t, err)

		info, err := svc.GetPoolInfo(user.ID, circle.ID)
		testutil.AssertNoError(t, err)

		if info.NextPayoutMember == nil || info.NextPayoutMember.UserID != user.ID {
			t.Error("expected the position 1 holder as next payout member")
		}
		if info.NextPayoutDate == nil {
			t.Error("expected a scheduled next payout date")
		}
	})

	t.Run("non_member_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPoolService(db, NewRotationService(db))
		creator := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)

		_, err := svc.GetPoolInfo(outsider.ID, circle.ID)
		testutil.AssertAppError(t, err, "NOT_CIRCLE_MEMBER")
	})
}
