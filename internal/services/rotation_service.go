package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "esusu/internal/errors"
	"esusu/internal/models"
)

// rotationService owns payout position assignment and advancement.
//
// States are derived, never stored separately: a circle with no assigned
// positions is Uninitialized, one with positions is Active, and a completed
// circle is Complete. Positions of active members always form the exact set
// {1..N}; position 1 is next in line.
//
// Policy decisions:
//   - positions are assigned in join order (joined_at, then member ID);
//   - a paid member exits the position queue (position cleared) but remains
//     a contributing member of the circle.
type rotationService struct {
	db    *gorm.DB
	locks *circleLocks
}

// NewRotationService creates a new RotationServicer.
func NewRotationService(db *gorm.DB) RotationServicer {
	return &rotationService{db: db, locks: newCircleLocks()}
}

func (s *rotationService) getCircle(db *gorm.DB, circleID uint) (*models.Circle, error) {
	var circle models.Circle
	if err := db.First(&circle, circleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCircleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &circle, nil
}

// requireAdmin returns the caller's membership row and rejects non-admins.
func (s *rotationService) requireAdmin(db *gorm.DB, circleID, userID uint) (*models.Member, error) {
	var member models.Member
	if err := db.Where("circle_id = ? AND user_id = ?", circleID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotCircleMember
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !member.IsAdmin {
		return nil, apperrors.ErrNotCircleAdmin
	}
	return &member, nil
}

// rosterByJoinOrder loads the circle's members in position assignment order.
func (s *rotationService) rosterByJoinOrder(db *gorm.DB, circleID uint) ([]models.Member, error) {
	var members []models.Member
	if err := db.Preload("User").
		Where("circle_id = ?", circleID).
		Order("joined_at ASC, id ASC").
		Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return members, nil
}

// positionedCount returns how many members currently hold a payout position.
func positionedCount(members []models.Member) int {
	n := 0
	for i := range members {
		if members[i].PayoutPosition != nil {
			n++
		}
	}
	return n
}

// checkPermutation verifies that assigned positions are exactly {1..n}.
// A violation is reported as an integrity failure, never repaired.
func checkPermutation(members []models.Member) error {
	seen := make(map[int]bool)
	n := 0
	for i := range members {
		if members[i].PayoutPosition == nil {
			continue
		}
		p := *members[i].PayoutPosition
		if p < 1 || seen[p] {
			return apperrors.Wrap(apperrors.ErrRotationIntegrity,
				fmt.Errorf("invalid or duplicate payout position %d", p))
		}
		seen[p] = true
		n++
	}
	for p := 1; p <= n; p++ {
		if !seen[p] {
			return apperrors.Wrap(apperrors.ErrRotationIntegrity,
				fmt.Errorf("payout positions have a gap at %d", p))
		}
	}
	return nil
}

func toRotationMember(m *models.Member, rotationStarted bool) RotationMember {
	return RotationMember{
		MemberID:       m.ID,
		UserID:         m.UserID,
		FirstName:      m.User.FirstName,
		LastName:       m.User.LastName,
		IsAdmin:        m.IsAdmin,
		PayoutPosition: m.PayoutPosition,
		NextPayoutDate: m.NextPayoutDate,
		PaidOut:        rotationStarted && m.PayoutPosition == nil,
	}
}

// buildStatus assembles a rotation snapshot from the circle and its roster.
func (s *rotationService) buildStatus(db *gorm.DB, circle *models.Circle) (*RotationStatus, error) {
	members, err := s.rosterByJoinOrder(db, circle.ID)
	if err != nil {
		return nil, err
	}
	if err := checkPermutation(members); err != nil {
		return nil, err
	}

	positioned := positionedCount(members)
	complete := circle.Status == models.CircleStatusCompleted
	rotationStarted := positioned > 0 || complete

	status := &RotationStatus{
		CircleID:         circle.ID,
		TotalMembers:     len(members),
		RotationComplete: complete,
		Members:          make([]RotationMember, 0, len(members)),
	}

	for i := range members {
		rm := toRotationMember(&members[i], rotationStarted)
		status.Members = append(status.Members, rm)

		if members[i].PayoutPosition != nil && *members[i].PayoutPosition == 1 {
			next := rm
			status.NextPayoutMember = &next
			status.NextPayoutDate = members[i].NextPayoutDate
		}
	}

	if rotationStarted && !complete {
		current := len(members) - positioned + 1
		status.CurrentPayoutPosition = &current
	}

	return status, nil
}

// Initialize assigns payout positions 1..N in join order and schedules the
// first payout one cycle length from now. The circle must be active and its
// rotation untouched; the operation is serialized per circle.
func (s *rotationService) Initialize(circleID, adminUserID uint) (*RotationStatus, error) {
	lock := s.locks.get(circleID)
	lock.Lock()
	defer lock.Unlock()

	var status *RotationStatus
	err := s.db.Transaction(func(tx *gorm.DB) error {
		circle, err := s.getCircle(tx, circleID)
		if err != nil {
			return err
		}
		if _, err := s.requireAdmin(tx, circleID, adminUserID); err != nil {
			return err
		}

		switch circle.Status {
		case models.CircleStatusCompleted:
			return apperrors.ErrRotationComplete
		case models.CircleStatusPending:
			return apperrors.ErrCircleNotActive
		}

		members, err := s.rosterByJoinOrder(tx, circleID)
		if err != nil {
			return err
		}
		if positionedCount(members) > 0 {
			return apperrors.ErrRotationAlreadyInitialized
		}
		if len(members) == 0 {
			return apperrors.Wrap(apperrors.ErrRotationIntegrity,
				fmt.Errorf("circle %d has no members", circleID))
		}

		firstPayout := time.Now().AddDate(0, 0, circle.Frequency.Days())
		for i := range members {
			pos := i + 1
			updates := map[string]interface{}{"payout_position": pos}
			if pos == 1 {
				updates["next_payout_date"] = firstPayout
			}
			if err := tx.Model(&members[i]).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		res := tx.Model(&models.Circle{}).
			Where("id = ? AND status = ?", circleID, models.CircleStatusActive).
			Update("status", models.CircleStatusStarted)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrRotationAlreadyInitialized
		}
		circle.Status = models.CircleStatusStarted

		status, err = s.buildStatus(tx, circle)
		return err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// Advance marks the position-1 holder as paid, shifts the remaining
// positions down by one, and schedules the next payout one cycle length
// from now. The paid member exits the position queue. Passing memberID pays
// out that specific positioned member instead and doubles as a
// compare-and-swap: a second concurrent advance for the same member fails
// because the member no longer holds a position.
func (s *rotationService) Advance(circleID, adminUserID uint, memberID *uint) (*RotationStatus, error) {
	lock := s.locks.get(circleID)
	lock.Lock()
	defer lock.Unlock()

	var status *RotationStatus
	err := s.db.Transaction(func(tx *gorm.DB) error {
		circle, err := s.getCircle(tx, circleID)
		if err != nil {
			return err
		}
		if _, err := s.requireAdmin(tx, circleID, adminUserID); err != nil {
			return err
		}

		if circle.Status == models.CircleStatusCompleted {
			return apperrors.ErrRotationComplete
		}

		members, err := s.rosterByJoinOrder(tx, circleID)
		if err != nil {
			return err
		}
		if err := checkPermutation(members); err != nil {
			return err
		}

		positioned := positionedCount(members)
		if positioned == 0 {
			return apperrors.ErrRotationNotInitialized
		}

		var target *models.Member
		if memberID != nil {
			for i := range members {
				if members[i].ID == *memberID {
					target = &members[i]
					break
				}
			}
			if target == nil {
				return apperrors.ErrMemberNotFound
			}
			if target.PayoutPosition == nil {
				return apperrors.ErrMemberNotInRotation
			}
		} else {
			for i := range members {
				if members[i].PayoutPosition != nil && *members[i].PayoutPosition == 1 {
					target = &members[i]
					break
				}
			}
			if target == nil {
				return apperrors.Wrap(apperrors.ErrRotationIntegrity,
					fmt.Errorf("circle %d has positioned members but no position 1", circleID))
			}
		}

		paidPosition := *target.PayoutPosition

		// The paid member leaves the queue; everyone behind them moves up.
		err = tx.Model(target).Updates(map[string]interface{}{
			"payout_position":  nil,
			"next_payout_date": nil,
		}).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		err = tx.Model(&models.Member{}).
			Where("circle_id = ? AND payout_position > ?", circleID, paidPosition).
			UpdateColumn("payout_position", gorm.Expr("payout_position - 1")).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if positioned == 1 {
			// Last member paid: the rotation, and the circle, are complete.
			res := tx.Model(&models.Circle{}).
				Where("id = ? AND status = ?", circleID, models.CircleStatusStarted).
				Update("status", models.CircleStatusCompleted)
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
			}
			circle.Status = models.CircleStatusCompleted
		} else {
			nextPayout := time.Now().AddDate(0, 0, circle.Frequency.Days())
			err = tx.Model(&models.Member{}).
				Where("circle_id = ? AND payout_position = 1", circleID).
				Update("next_payout_date", nextPayout).Error
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		status, err = s.buildStatus(tx, circle)
		return err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// GetStatus returns a rotation snapshot for a circle member.
func (s *rotationService) GetStatus(userID, circleID uint) (*RotationStatus, error) {
	circle, err := s.getCircle(s.db, circleID)
	if err != nil {
		return nil, err
	}

	var member models.Member
	if err := s.db.Where("circle_id = ? AND user_id = ?", circleID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotCircleMember
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.buildStatus(s.db, circle)
}

// NextPayout returns the member currently holding position 1 and their
// payout date. It returns nil without error when the rotation has not been
// initialized or is complete: there is no next payout to schedule.
func (s *rotationService) NextPayout(circleID uint) (*NextPayoutInfo, error) {
	var member models.Member
	err := s.db.Preload("User").
		Where("circle_id = ? AND payout_position = 1", circleID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rm := toRotationMember(&member, true)
	return &NextPayoutInfo{Member: &rm, Date: member.NextPayoutDate}, nil
}
