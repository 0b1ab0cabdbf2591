package services

import (
	"testing"
	"time"

	"esusu/internal/models"
	"esusu/internal/pagination"
	"esusu/internal/testutil"
)

func TestCreateCircle(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		user := testutil.CreateTestUser(t, db)

		circle, err := svc.CreateCircle(user.ID, "Family Savings", "weekly pot", 5000, "USD", models.FrequencyWeekly)
		testutil.AssertNoError(t, err)

		if circle.ID == 0 {
			t.Fatal("expected non-zero circle ID")
		}
		if circle.Status != models.CircleStatusPending {
			t.Errorf("expected status pending, got %s", circle.Status)
		}
		if circle.InviteCode == "" {
			t.Error("expected an invite code")
		}

		// Creator must be enrolled as admin.
		var member models.Member
		if err := db.Where("circle_id = ? AND user_id = ?", circle.ID, user.ID).First(&member).Error; err != nil {
			t.Fatalf("expected creator membership: %v", err)
		}
		if !member.IsAdmin {
			t.Error("expected creator to be admin")
		}
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCircle(user.ID, "Bad", "", 0, "USD", models.FrequencyWeekly)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_unknown_frequency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCircle(user.ID, "Bad", "", 1000, "USD", models.Frequency("fortnightly"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestJoinCircle(t *testing.T) {
	t.Run("joins_pending_circle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		joiner := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)

		member, err := svc.JoinCircle(joiner.ID, circle.InviteCode)
		testutil.AssertNoError(t, err)

		if member.CircleID != circle.ID {
			t.Errorf("expected circle %d, got %d", circle.ID, member.CircleID)
		}
		if member.IsAdmin {
			t.Error("joining member must not be admin")
		}
		if member.PayoutPosition != nil {
			t.Error("payout position must be unset before rotation initialization")
		}
	})

	t.Run("unknown_invite_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.JoinCircle(user.ID, "NOSUCHCODE")
		testutil.AssertAppError(t, err, "INVALID_INVITE_CODE")
	})

	t.Run("duplicate_join", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		joiner := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)

		_, err := svc.JoinCircle(joiner.ID, circle.InviteCode)
		testutil.AssertNoError(t, err)

		_, err = svc.JoinCircle(joiner.ID, circle.InviteCode)
		testutil.AssertAppError(t, err, "ALREADY_MEMBER")
	})

	t.Run("closed_after_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		late := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)
		testutil.SetCircleStatus(t, db, circle.ID, models.CircleStatusActive)

		_, err := svc.JoinCircle(late.ID, circle.InviteCode)
		testutil.AssertAppError(t, err, "CIRCLE_NOT_JOINABLE")
	})
}

func TestGetUserCircles(t *testing.T) {
	t.Run("returns_memberships_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		c1 := testutil.CreateTestCircle(t, db, user1.ID, models.FrequencyWeekly, 5000)
		testutil.CreateTestCircle(t, db, user2.ID, models.FrequencyMonthly, 10000)
		testutil.AddTestMember(t, db, c1.ID, user2.ID, false)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserCircles(user1.ID, page)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 circle for user1, got %d", result.TotalItems)
		}

		result, err = svc.GetUserCircles(user2.ID, page)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 circles for user2, got %d", result.TotalItems)
		}
	})
}

func TestGetCircleByID(t *testing.T) {
	t.Run("member_sees_roster", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)
		testutil.AddTestMember(t, db, circle.ID, other.ID, false)

		got, err := svc.GetCircleByID(creator.ID, circle.ID)
		testutil.AssertNoError(t, err)
		if len(got.Members) != 2 {
			t.Errorf("expected 2 members preloaded, got %d", len(got.Members))
		}
	})

	t.Run("non_member_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)

		_, err := svc.GetCircleByID(outsider.ID, circle.ID)
		testutil.AssertAppError(t, err, "NOT_CIRCLE_MEMBER")
	})

	t.Run("missing_circle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetCircleByID(user.ID, 9999)
		testutil.AssertAppError(t, err, "CIRCLE_NOT_FOUND")
	})
}

func TestGetStartEligibility(t *testing.T) {
	t.Run("threshold_met_on_pending_circle", func(t *testing.T) {
		// Roster of 5, four with a completed contribution: exactly 80%.
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)

		users := []*models.User{creator}
		for i := 0; i < 4; i++ {
			u := testutil.CreateTestUser(t, db)
			testutil.AddTestMember(t, db, circle.ID, u.ID, false)
			users = append(users, u)
		}
		for _, u := range users[:4] {
			testutil.CreateTestContribution(t, db, circle.ID, u.ID, models.TransactionStatusCompleted, 5000, time.Now(), nil)
		}

		result, err := svc.GetStartEligibility(creator.ID, circle.ID)
		testutil.AssertNoError(t, err)

		if result.TotalMembers != 5 {
			t.Errorf("expected 5 members, got %d", result.TotalMembers)
		}
		if result.ContributedMembers != 4 {
			t.Errorf("expected 4 contributed members, got %d", result.ContributedMembers)
		}
		if result.ContributionPercentage != 80 {
			t.Errorf("expected 80%%, got %f", result.ContributionPercentage)
		}
		if !result.CanStart {
			t.Error("expected circle to be startable at 80%")
		}
	})

	t.Run("not_startable_when_already_active", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)
		testutil.CreateTestContribution(t, db, circle.ID, creator.ID, models.TransactionStatusCompleted, 5000, time.Now(), nil)
		testutil.SetCircleStatus(t, db, circle.ID, models.CircleStatusActive)

		result, err := svc.GetStartEligibility(creator.ID, circle.ID)
		testutil.AssertNoError(t, err)

		if result.ContributionPercentage != 100 {
			t.Errorf("expected 100%%, got %f", result.ContributionPercentage)
		}
		if result.CanStart {
			t.Error("an active circle must not be startable regardless of percentage")
		}
	})

	t.Run("below_threshold", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)
		other := testutil.CreateTestUser(t, db)
		testutil.AddTestMember(t, db, circle.ID, other.ID, false)

		testutil.CreateTestContribution(t, db, circle.ID, creator.ID, models.TransactionStatusCompleted, 5000, time.Now(), nil)

		result, err := svc.GetStartEligibility(creator.ID, circle.ID)
		testutil.AssertNoError(t, err)

		if result.CanStart {
			t.Error("50% coverage must not be startable")
		}
	})

	t.Run("only_completed_contributions_count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)

		testutil.CreateTestContribution(t, db, circle.ID, creator.ID, models.TransactionStatusPending, 5000, time.Now(), nil)

		result, err := svc.GetStartEligibility(creator.ID, circle.ID)
		testutil.AssertNoError(t, err)

		if result.ContributedMembers != 0 {
			t.Errorf("pending contributions must not count, got %d", result.ContributedMembers)
		}
	})
}

func TestStartCircle(t *testing.T) {
	t.Run("admin_starts_eligible_circle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)
		testutil.CreateTestContribution(t, db, circle.ID, creator.ID, models.TransactionStatusCompleted, 5000, time.Now(), nil)

		started, err := svc.StartCircle(creator.ID, circle.ID)
		testutil.AssertNoError(t, err)
		if started.Status != models.CircleStatusActive {
			t.Errorf("expected status active, got %s", started.Status)
		}
	})

	t.Run("non_admin_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)
		testutil.AddTestMember(t, db, circle.ID, other.ID, false)

		_, err := svc.StartCircle(other.ID, circle.ID)
		testutil.AssertAppError(t, err, "NOT_CIRCLE_ADMIN")
	})

	t.Run("not_startable_below_threshold", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)

		_, err := svc.StartCircle(creator.ID, circle.ID)
		testutil.AssertAppError(t, err, "CIRCLE_NOT_STARTABLE")
	})

	t.Run("cannot_start_twice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCircleService(db)
		creator := testutil.CreateTestUser(t, db)
		circle := testutil.CreateTestCircle(t, db, creator.ID, models.FrequencyWeekly, 5000)
		testutil.CreateTestContribution(t, db, circle.ID, creator.ID, models.TransactionStatusCompleted, 5000, time.Now(), nil)

		_, err := svc.StartCircle(creator.ID, circle.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.StartCircle(creator.ID, circle.ID)
		testutil.AssertAppError(t, err, "CIRCLE_NOT_STARTABLE")
	})
}
