package models

import "time"

// Member represents a user's membership in a circle.
//
// PayoutPosition and NextPayoutDate are owned by the rotation service and
// are null until the circle's rotation is initialized. Position 1 is next
// in line for a payout; a member whose position is cleared after rotation
// start has already been paid.
type Member struct {
	Base
	CircleID       uint       `gorm:"not null;uniqueIndex:idx_members_circle_user" json:"circle_id"`
	UserID         uint       `gorm:"not null;uniqueIndex:idx_members_circle_user" json:"user_id"`
	IsAdmin        bool       `gorm:"default:false" json:"is_admin"`
	PayoutPosition *int       `json:"payout_position"`
	NextPayoutDate *time.Time `json:"next_payout_date"`
	JoinedAt       time.Time  `gorm:"not null" json:"joined_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
