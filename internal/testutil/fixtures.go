package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"esusu/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCircle creates a pending circle with the creator as admin member.
func CreateTestCircle(t *testing.T, db *gorm.DB, creatorID uint, freq models.Frequency, amount int64) *models.Circle {
	t.Helper()

	circle := &models.Circle{
		Name:               fmt.Sprintf("Test Circle %d", nextID()),
		CreatedBy:          creatorID,
		ContributionAmount: amount,
		Currency:           "USD",
		Frequency:          freq,
		Status:             models.CircleStatusPending,
		InviteCode:         fmt.Sprintf("TESTCODE%d", nextID()),
	}
	if err := db.Create(circle).Error; err != nil {
		t.Fatalf("failed to create test circle: %v", err)
	}

	AddTestMember(t, db, circle.ID, creatorID, true)
	return circle
}

// AddTestMember enrolls a user in a circle.
func AddTestMember(t *testing.T, db *gorm.DB, circleID, userID uint, isAdmin bool) *models.Member {
	t.Helper()

	member := &models.Member{
		CircleID: circleID,
		UserID:   userID,
		IsAdmin:  isAdmin,
		// Spread join times so join-order position assignment is deterministic.
		JoinedAt: time.Now().Add(time.Duration(nextID()) * time.Millisecond),
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to add test member: %v", err)
	}
	return member
}

// SetCircleStatus moves a circle to the given status directly.
func SetCircleStatus(t *testing.T, db *gorm.DB, circleID uint, status models.CircleStatus) {
	t.Helper()

	if err := db.Model(&models.Circle{}).Where("id = ?", circleID).Update("status", status).Error; err != nil {
		t.Fatalf("failed to set circle status: %v", err)
	}
}

// CreateTestContribution inserts a contribution ledger entry.
func CreateTestContribution(t *testing.T, db *gorm.DB, circleID, userID uint, status models.TransactionStatus, amount int64, date time.Time, cycleStart *time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		CircleID:        circleID,
		UserID:          userID,
		Type:            models.TransactionTypeContribution,
		Status:          status,
		Amount:          amount,
		TransactionDate: date,
		CycleStart:      cycleStart,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test contribution: %v", err)
	}
	return tx
}

// CreateTestPayout inserts a payout ledger entry.
func CreateTestPayout(t *testing.T, db *gorm.DB, circleID, userID uint, status models.TransactionStatus, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		CircleID:        circleID,
		UserID:          userID,
		Type:            models.TransactionTypePayout,
		Status:          status,
		Amount:          amount,
		TransactionDate: date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test payout: %v", err)
	}
	return tx
}
