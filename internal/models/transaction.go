package models

import "time"

// TransactionType represents the type of ledger entry
type TransactionType string

const (
	TransactionTypeContribution TransactionType = "contribution"
	TransactionTypePayout       TransactionType = "payout"
)

// TransactionStatus represents the payment execution state of a ledger entry.
// Status is driven by the external payment collaborator; only completed
// entries count toward pool balances.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusFailed     TransactionStatus = "failed"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed || s == TransactionStatusCancelled
}

// Failed reports whether the status represents an unsuccessful outcome.
// Failed contributions do not occupy a cycle window.
func (s TransactionStatus) Failed() bool {
	return s == TransactionStatusFailed || s == TransactionStatusCancelled
}

// Transaction represents a ledger entry for a circle.
//
// CycleStart pins a contribution to its cycle window; the composite unique
// index on (circle_id, user_id, cycle_start) is what makes the
// one-contribution-per-window rule hold under concurrent inserts. It is
// cleared when a contribution fails or is cancelled so the window reopens,
// and is always null for payouts.
type Transaction struct {
	Base
	CircleID        uint              `gorm:"not null;index;uniqueIndex:idx_ledger_member_cycle" json:"circle_id"`
	UserID          uint              `gorm:"not null;index;uniqueIndex:idx_ledger_member_cycle" json:"user_id"`
	Type            TransactionType   `gorm:"not null" json:"type"`
	Status          TransactionStatus `gorm:"not null;default:'pending'" json:"status"`
	Amount          int64             `gorm:"type:bigint;not null" json:"amount"`
	TransactionDate time.Time         `gorm:"not null" json:"transaction_date"`
	CycleStart      *time.Time        `gorm:"uniqueIndex:idx_ledger_member_cycle" json:"cycle_start,omitempty"`
}
