package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "esusu/internal/errors"
	"esusu/internal/logger"
	"esusu/internal/models"
)

// payoutHistoryLimit caps the number of recent payouts in a pool view.
const payoutHistoryLimit = 10

// poolService aggregates the transaction ledger into pool balances.
// Balances are always recomputed from completed transactions, never cached,
// so the ledger remains the single source of truth.
type poolService struct {
	db       *gorm.DB
	rotation RotationServicer
}

// NewPoolService creates a new PoolServicer.
func NewPoolService(db *gorm.DB, rotation RotationServicer) PoolServicer {
	return &poolService{db: db, rotation: rotation}
}

// poolBalances sums completed contributions and payouts for a circle.
func poolBalances(db *gorm.DB, circleID uint) (total, paid int64, err error) {
	err = db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("circle_id = ? AND type = ? AND status = ?",
			circleID, models.TransactionTypeContribution, models.TransactionStatusCompleted).
		Scan(&total).Error
	if err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("circle_id = ? AND type = ? AND status = ?",
			circleID, models.TransactionTypePayout, models.TransactionStatusCompleted).
		Scan(&paid).Error
	if err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return total, paid, nil
}

// GetPoolInfo aggregates the circle ledger for a member. A negative
// available pool means money left the circle that never came in: that is
// ledger corruption upstream, reported as a hard integrity failure and
// never corrected here.
func (s *poolService) GetPoolInfo(userID, circleID uint) (*PoolInfo, error) {
	var circle models.Circle
	if err := s.db.First(&circle, circleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCircleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var member models.Member
	if err := s.db.Where("circle_id = ? AND user_id = ?", circleID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotCircleMember
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total, paid, err := poolBalances(s.db, circleID)
	if err != nil {
		return nil, err
	}

	available := total - paid
	if available < 0 {
		logger.Get().Errorw("negative available pool",
			"circle_id", circleID,
			"total_pool", total,
			"total_paid", paid,
		)
		return nil, apperrors.Wrap(apperrors.ErrLedgerIntegrity,
			fmt.Errorf("circle %d: payouts %d exceed contributions %d", circleID, paid, total))
	}

	var history []models.Transaction
	err = s.db.Where("circle_id = ? AND type = ? AND status IN ?",
		circleID, models.TransactionTypePayout,
		[]models.TransactionStatus{models.TransactionStatusCompleted, models.TransactionStatusFailed}).
		Order("transaction_date DESC").
		Limit(payoutHistoryLimit).
		Find(&history).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	info := &PoolInfo{
		TotalPool:     total,
		TotalPaid:     paid,
		AvailablePool: available,
		PayoutHistory: history,
	}

	next, err := s.rotation.NextPayout(circleID)
	if err != nil {
		return nil, err
	}
	if next != nil {
		info.NextPayoutMember = next.Member
		info.NextPayoutDate = next.Date
	}

	return info, nil
}
