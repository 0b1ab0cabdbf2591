package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"esusu/internal/cycle"
	apperrors "esusu/internal/errors"
	"esusu/internal/models"
	"esusu/internal/pagination"
)

// ledgerService handles contribution eligibility and ledger writes.
type ledgerService struct {
	db       *gorm.DB
	notifier *LedgerNotifier
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB, notifier *LedgerNotifier) LedgerServicer {
	return &ledgerService{db: db, notifier: notifier}
}

func (s *ledgerService) getCircle(db *gorm.DB, circleID uint) (*models.Circle, error) {
	var circle models.Circle
	if err := db.First(&circle, circleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCircleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &circle, nil
}

func (s *ledgerService) requireMember(db *gorm.DB, circleID, userID uint) (*models.Member, error) {
	var member models.Member
	if err := db.Where("circle_id = ? AND user_id = ?", circleID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotCircleMember
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// nonFailed excludes contributions that failed or were cancelled; those do
// not occupy a cycle window.
func nonFailed(db *gorm.DB) *gorm.DB {
	return db.Where("status NOT IN ?", []models.TransactionStatus{
		models.TransactionStatusFailed,
		models.TransactionStatusCancelled,
	})
}

// eligibility computes the member's current cycle window and contribution
// count from the ledger. It runs against the passed db handle so that
// RecordContribution can evaluate it inside its insert transaction.
func (s *ledgerService) eligibility(db *gorm.DB, circle *models.Circle, userID uint, now time.Time) (*EligibilityResult, error) {
	var last models.Transaction
	var lastDate *time.Time
	err := nonFailed(db.Where("circle_id = ? AND user_id = ? AND type = ?",
		circle.ID, userID, models.TransactionTypeContribution)).
		Order("transaction_date DESC").
		First(&last).Error
	switch {
	case err == nil:
		lastDate = &last.TransactionDate
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first contribution, window anchors to circle creation
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	window, err := cycle.For(circle.Frequency, circle.CreatedAt, lastDate, now)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	err = nonFailed(db.Model(&models.Transaction{}).
		Where("circle_id = ? AND user_id = ? AND type = ?",
			circle.ID, userID, models.TransactionTypeContribution)).
		Where("transaction_date >= ? AND transaction_date < ?", window.Start, window.End).
		Count(&count).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &EligibilityResult{
		CanContribute:          count == 0,
		CycleStart:             window.Start,
		CycleEnd:               window.End,
		ContributionsThisCycle: count,
	}
	if !result.CanContribute {
		end := window.End
		result.NextAllowedDate = &end
	}
	return result, nil
}

// CanContribute reports whether the member may contribute right now.
// Recomputed from the ledger on every call; the answer is advisory only and
// the insert in RecordContribution is what actually serializes attempts.
func (s *ledgerService) CanContribute(circleID, userID uint, now time.Time) (*EligibilityResult, error) {
	circle, err := s.getCircle(s.db, circleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMember(s.db, circleID, userID); err != nil {
		return nil, err
	}
	return s.eligibility(s.db, circle, userID, now)
}

// RecordContribution inserts a pending contribution for the member's current
// cycle window. The eligibility check runs inside the insert transaction and
// the (circle_id, user_id, cycle_start) unique index backs it up, so of two
// concurrent attempts for the same window exactly one succeeds.
func (s *ledgerService) RecordContribution(circleID, userID uint, now time.Time) (*models.Transaction, error) {
	circle, err := s.getCircle(s.db, circleID)
	if err != nil {
		return nil, err
	}
	if circle.Status == models.CircleStatusCompleted {
		return nil, apperrors.ErrCircleCompleted
	}
	if _, err := s.requireMember(s.db, circleID, userID); err != nil {
		return nil, err
	}

	var entry *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		elig, err := s.eligibility(tx, circle, userID, now)
		if err != nil {
			return err
		}
		if !elig.CanContribute {
			return apperrors.WithMessage(apperrors.ErrContributionWindowClosed,
				fmt.Sprintf("A contribution for this cycle already exists; the next window opens %s", elig.CycleEnd.Format(time.RFC3339)))
		}

		start := elig.CycleStart
		entry = &models.Transaction{
			CircleID:        circleID,
			UserID:          userID,
			Type:            models.TransactionTypeContribution,
			Status:          models.TransactionStatusPending,
			Amount:          circle.ContributionAmount,
			TransactionDate: now,
			CycleStart:      &start,
		}
		if err := tx.Create(entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost the race against a concurrent attempt for the same window.
				return apperrors.ErrContributionWindowClosed
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(circleID)
	return entry, nil
}

// RecordPayout inserts a pending payout for a member, to be executed by the
// external payment collaborator. Admin only. The amount is checked against
// the available pool of completed funds.
func (s *ledgerService) RecordPayout(circleID, adminUserID, memberUserID uint, amount int64, now time.Time) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payout amount must be greater than zero")
	}

	if _, err := s.getCircle(s.db, circleID); err != nil {
		return nil, err
	}

	admin, err := s.requireMember(s.db, circleID, adminUserID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin {
		return nil, apperrors.ErrNotCircleAdmin
	}

	var target models.Member
	if err := s.db.Where("circle_id = ? AND user_id = ?", circleID, memberUserID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entry *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		total, paid, err := poolBalances(tx, circleID)
		if err != nil {
			return err
		}
		if amount > total-paid {
			return apperrors.ErrInsufficientPool
		}

		entry = &models.Transaction{
			CircleID:        circleID,
			UserID:          memberUserID,
			Type:            models.TransactionTypePayout,
			Status:          models.TransactionStatusPending,
			Amount:          amount,
			TransactionDate: now,
		}
		if err := tx.Create(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(circleID)
	return entry, nil
}

// validStatusTransition encodes the payment lifecycle:
// pending -> processing | completed | failed | cancelled,
// processing -> completed | failed. Terminal states never change.
func validStatusTransition(from, to models.TransactionStatus) bool {
	if from.Terminal() {
		return false
	}
	switch from {
	case models.TransactionStatusPending:
		return to == models.TransactionStatusProcessing ||
			to == models.TransactionStatusCompleted ||
			to == models.TransactionStatusFailed ||
			to == models.TransactionStatusCancelled
	case models.TransactionStatusProcessing:
		return to == models.TransactionStatusCompleted ||
			to == models.TransactionStatusFailed
	}
	return false
}

// UpdateTransactionStatus applies a status report from the external payment
// collaborator. A failed or cancelled contribution releases its cycle window
// by clearing cycle_start.
func (s *ledgerService) UpdateTransactionStatus(transactionID uint, status models.TransactionStatus) (*models.Transaction, error) {
	var entry models.Transaction
	if err := s.db.First(&entry, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !validStatusTransition(entry.Status, status) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidStatusTransition,
			fmt.Sprintf("cannot move a %s transaction to %s", entry.Status, status))
	}

	updates := map[string]interface{}{"status": status}
	if entry.Type == models.TransactionTypeContribution && status.Failed() {
		updates["cycle_start"] = nil
	}

	if err := s.db.Model(&entry).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notifier.Notify(entry.CircleID)
	return &entry, nil
}

// GetCircleTransactions returns a paginated, filtered ledger view for a circle.
func (s *ledgerService) GetCircleTransactions(userID, circleID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := s.getCircle(s.db, circleID); err != nil {
		return nil, err
	}
	if _, err := s.requireMember(s.db, circleID, userID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("circle_id = ?", circleID)
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		base = base.Where("transaction_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("transaction_date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("transaction_date DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}
