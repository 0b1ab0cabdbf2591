package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "esusu/internal/errors"
	"esusu/internal/models"
	"esusu/internal/pagination"
)

// StartThresholdPercent is the share of members that must have at least one
// completed contribution before a pending circle may be started.
const StartThresholdPercent = 80.0

// circleService handles circle and roster business logic.
type circleService struct {
	db *gorm.DB
}

// NewCircleService creates a new CircleServicer.
func NewCircleService(db *gorm.DB) CircleServicer {
	return &circleService{db: db}
}

// newInviteCode derives a short shareable code from a random UUID.
func newInviteCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:10])
}

// CreateCircle creates a circle and enrolls the creator as its admin member.
func (s *circleService) CreateCircle(userID uint, name, description string, amount int64, currency string, freq models.Frequency) (*models.Circle, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "contribution amount must be greater than zero")
	}
	if freq.Days() <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown contribution frequency")
	}
	if currency == "" {
		currency = "USD"
	}

	circle := &models.Circle{
		Name:               name,
		Description:        description,
		CreatedBy:          userID,
		ContributionAmount: amount,
		Currency:           currency,
		Frequency:          freq,
		Status:             models.CircleStatusPending,
		InviteCode:         newInviteCode(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(circle).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		admin := &models.Member{
			CircleID: circle.ID,
			UserID:   userID,
			IsAdmin:  true,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(admin).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return circle, nil
}

// GetUserCircles returns a paginated list of circles the user belongs to.
func (s *circleService) GetUserCircles(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Circle], error) {
	page.Defaults()

	base := s.db.Model(&models.Circle{}).
		Joins("JOIN members ON members.circle_id = circles.id").
		Where("members.user_id = ? AND members.deleted_at IS NULL", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var circles []models.Circle
	if err := base.Scopes(pagination.Paginate(page)).
		Order("circles.created_at DESC").
		Find(&circles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(circles, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCircleByID returns a circle with its roster if the user is a member.
func (s *circleService) GetCircleByID(userID, circleID uint) (*models.Circle, error) {
	var circle models.Circle
	if err := s.db.Preload("Members.User").First(&circle, circleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCircleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, err := s.GetMember(circleID, userID); err != nil {
		return nil, err
	}

	return &circle, nil
}

// GetMember returns the membership row for a user in a circle.
func (s *circleService) GetMember(circleID, userID uint) (*models.Member, error) {
	var member models.Member
	if err := s.db.Where("circle_id = ? AND user_id = ?", circleID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotCircleMember
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// JoinCircle adds the user to the circle matching the invite code.
// The roster is only open while the circle is pending; once contributions
// gate the start percentage, late joins would dilute it.
func (s *circleService) JoinCircle(userID uint, inviteCode string) (*models.Member, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	if code == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invite code is required")
	}

	var circle models.Circle
	if err := s.db.Where("invite_code = ?", code).First(&circle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidInviteCode
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if circle.Status != models.CircleStatusPending {
		return nil, apperrors.ErrCircleNotJoinable
	}

	member := &models.Member{
		CircleID: circle.ID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	if err := s.db.Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyMember
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return member, nil
}

// GetStartEligibility reports whether the circle may transition from
// pending to active: at least StartThresholdPercent of members must have a
// completed contribution, and the circle must still be pending.
func (s *circleService) GetStartEligibility(userID, circleID uint) (*StartEligibilityResult, error) {
	var circle models.Circle
	if err := s.db.First(&circle, circleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCircleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, err := s.GetMember(circleID, userID); err != nil {
		return nil, err
	}

	var totalMembers int64
	if err := s.db.Model(&models.Member{}).Where("circle_id = ?", circleID).Count(&totalMembers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var contributedMembers int64
	err := s.db.Model(&models.Transaction{}).
		Where("circle_id = ? AND type = ? AND status = ?",
			circleID, models.TransactionTypeContribution, models.TransactionStatusCompleted).
		Distinct("user_id").
		Count(&contributedMembers).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var pct float64
	if totalMembers > 0 {
		pct = 100 * float64(contributedMembers) / float64(totalMembers)
	}

	return &StartEligibilityResult{
		CanStart:               pct >= StartThresholdPercent && circle.Status == models.CircleStatusPending,
		ContributionPercentage: pct,
		TotalMembers:           totalMembers,
		ContributedMembers:     contributedMembers,
	}, nil
}

// StartCircle transitions a pending circle to active. Only an admin may
// start a circle, and the start eligibility gate must pass. The update is
// guarded on the pending status so concurrent starts cannot apply twice.
func (s *circleService) StartCircle(userID, circleID uint) (*models.Circle, error) {
	member, err := s.GetMember(circleID, userID)
	if err != nil {
		return nil, err
	}
	if !member.IsAdmin {
		return nil, apperrors.ErrNotCircleAdmin
	}

	eligibility, err := s.GetStartEligibility(userID, circleID)
	if err != nil {
		return nil, err
	}
	if !eligibility.CanStart {
		return nil, apperrors.ErrCircleNotStartable
	}

	res := s.db.Model(&models.Circle{}).
		Where("id = ? AND status = ?", circleID, models.CircleStatusPending).
		Update("status", models.CircleStatusActive)
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrCircleAlreadyStarted
	}

	var circle models.Circle
	if err := s.db.First(&circle, circleID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &circle, nil
}
