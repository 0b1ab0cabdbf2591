package models

// Frequency represents the contribution cadence of a circle.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Days returns the cycle length in calendar days. Month-based cadences use
// fixed approximations (monthly=30, quarterly=90, yearly=365), not true
// month arithmetic. Returns 0 for an unknown frequency.
func (f Frequency) Days() int {
	switch f {
	case FrequencyDaily:
		return 1
	case FrequencyWeekly:
		return 7
	case FrequencyBiweekly:
		return 14
	case FrequencyMonthly:
		return 30
	case FrequencyQuarterly:
		return 90
	case FrequencyYearly:
		return 365
	}
	return 0
}

// CircleStatus represents the lifecycle state of a circle.
// Transitions are monotonic: pending -> active -> started -> completed.
type CircleStatus string

const (
	CircleStatusPending   CircleStatus = "pending"
	CircleStatusActive    CircleStatus = "active"
	CircleStatusStarted   CircleStatus = "started"
	CircleStatusCompleted CircleStatus = "completed"
)

// Circle represents a rotating savings circle.
type Circle struct {
	Base
	Name               string       `gorm:"not null" json:"name"`
	Description        string       `json:"description"`
	CreatedBy          uint         `gorm:"not null;index" json:"created_by"`
	ContributionAmount int64        `gorm:"type:bigint;not null" json:"contribution_amount"`
	Currency           string       `gorm:"not null;default:'USD'" json:"currency"`
	Frequency          Frequency    `gorm:"not null" json:"frequency"`
	Status             CircleStatus `gorm:"not null;default:'pending'" json:"status"`
	InviteCode         string       `gorm:"uniqueIndex;size:16;not null" json:"invite_code"`

	// Relationships
	Members      []Member      `gorm:"foreignKey:CircleID" json:"members,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:CircleID" json:"transactions,omitempty"`
}
