package services

import (
	"time"

	"esusu/internal/models"
	"esusu/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// StartEligibilityResult reports whether a circle may move from pending to
// active, with the contribution coverage behind the decision.
type StartEligibilityResult struct {
	CanStart               bool    `json:"can_start"`
	ContributionPercentage float64 `json:"contribution_percentage"`
	TotalMembers           int64   `json:"total_members"`
	ContributedMembers     int64   `json:"contributed_members"`
}

// CircleServicer defines the contract for circle and roster business logic.
type CircleServicer interface {
	CreateCircle(userID uint, name, description string, amount int64, currency string, freq models.Frequency) (*models.Circle, error)
	GetUserCircles(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Circle], error)
	GetCircleByID(userID, circleID uint) (*models.Circle, error)
	JoinCircle(userID uint, inviteCode string) (*models.Member, error)
	GetMember(circleID, userID uint) (*models.Member, error)
	GetStartEligibility(userID, circleID uint) (*StartEligibilityResult, error)
	StartCircle(userID, circleID uint) (*models.Circle, error)
}

// EligibilityResult reports whether a member may contribute right now and
// the cycle window behind the decision. It is recomputed from the ledger on
// every call; the boolean must never be cached across requests.
type EligibilityResult struct {
	CanContribute          bool       `json:"can_contribute"`
	CycleStart             time.Time  `json:"cycle_start"`
	CycleEnd               time.Time  `json:"cycle_end"`
	NextAllowedDate        *time.Time `json:"next_allowed_date,omitempty"`
	ContributionsThisCycle int64      `json:"contributions_this_cycle"`
}

// TransactionFilter holds optional filter parameters for listing ledger entries.
type TransactionFilter struct {
	Type     *models.TransactionType
	Status   *models.TransactionStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// LedgerServicer defines the contract for contribution eligibility and
// ledger writes. Status updates come from the external payment collaborator.
type LedgerServicer interface {
	CanContribute(circleID, userID uint, now time.Time) (*EligibilityResult, error)
	RecordContribution(circleID, userID uint, now time.Time) (*models.Transaction, error)
	RecordPayout(circleID, adminUserID, memberUserID uint, amount int64, now time.Time) (*models.Transaction, error)
	UpdateTransactionStatus(transactionID uint, status models.TransactionStatus) (*models.Transaction, error)
	GetCircleTransactions(userID, circleID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// RotationMember is a roster entry in a rotation snapshot.
type RotationMember struct {
	MemberID       uint       `json:"member_id"`
	UserID         uint       `json:"user_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	IsAdmin        bool       `json:"is_admin"`
	PayoutPosition *int       `json:"payout_position"`
	NextPayoutDate *time.Time `json:"next_payout_date,omitempty"`
	PaidOut        bool       `json:"paid_out"`
}

// RotationStatus is a read-only snapshot of a circle's payout rotation.
// CurrentPayoutPosition is the ordinal of the upcoming payout within the
// original rotation order (paid members + 1); it is nil before
// initialization and after completion.
type RotationStatus struct {
	CircleID              uint             `json:"circle_id"`
	TotalMembers          int              `json:"total_members"`
	CurrentPayoutPosition *int             `json:"current_payout_position"`
	NextPayoutMember      *RotationMember  `json:"next_payout_member"`
	NextPayoutDate        *time.Time       `json:"next_payout_date"`
	RotationComplete      bool             `json:"rotation_complete"`
	Members               []RotationMember `json:"members"`
}

// NextPayoutInfo identifies the member next in line and their payout date.
type NextPayoutInfo struct {
	Member *RotationMember `json:"member"`
	Date   *time.Time      `json:"date"`
}

// RotationServicer owns payout position assignment and advancement.
// It is the only writer of the roster's payout_position and
// next_payout_date fields.
type RotationServicer interface {
	Initialize(circleID, adminUserID uint) (*RotationStatus, error)
	Advance(circleID, adminUserID uint, memberID *uint) (*RotationStatus, error)
	GetStatus(userID, circleID uint) (*RotationStatus, error)
	NextPayout(circleID uint) (*NextPayoutInfo, error)
}

// PoolInfo aggregates the circle ledger. All amounts are in cents and are
// recomputed from completed transactions on every call.
type PoolInfo struct {
	TotalPool        int64                `json:"total_pool"`
	TotalPaid        int64                `json:"total_paid"`
	AvailablePool    int64                `json:"available_pool"`
	NextPayoutMember *RotationMember      `json:"next_payout_member"`
	NextPayoutDate   *time.Time           `json:"next_payout_date,omitempty"`
	PayoutHistory    []models.Transaction `json:"payout_history"`
}

// PoolServicer defines the contract for pool balance aggregation.
type PoolServicer interface {
	GetPoolInfo(userID, circleID uint) (*PoolInfo, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
