// Package scheduler runs the periodic payout sweep.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"esusu/internal/logger"
	"esusu/internal/models"
	"esusu/internal/services"
)

// duePayout is a circle whose position 1 member's payout date has arrived.
type duePayout struct {
	CircleID       uint
	CircleName     string
	MemberID       uint
	UserID         uint
	NextPayoutDate time.Time
}

// PayoutSweeper periodically scans for circles whose next payout is due and
// surfaces them through logs and ledger notifications. It never advances a
// rotation on its own: payouts are an admin action.
type PayoutSweeper struct {
	db       *gorm.DB
	notifier *services.LedgerNotifier
	cron     *cron.Cron
}

// NewPayoutSweeper creates a sweeper over the given store.
func NewPayoutSweeper(db *gorm.DB, notifier *services.LedgerNotifier) *PayoutSweeper {
	return &PayoutSweeper{db: db, notifier: notifier}
}

// Start schedules the sweep with the given cron spec and launches the
// scheduler goroutine.
func (s *PayoutSweeper) Start(spec string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, func() { s.Sweep(time.Now()) }); err != nil {
		return err
	}
	s.cron.Start()
	logger.Get().Infow("payout sweeper started", "spec", spec)
	return nil
}

// Stop halts the scheduler. Running sweeps finish.
func (s *PayoutSweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep finds all started circles whose scheduled payout date has passed and
// notifies subscribers. Exported so it can be triggered outside the cron
// schedule.
func (s *PayoutSweeper) Sweep(now time.Time) []uint {
	var due []duePayout
	err := s.db.Model(&models.Member{}).
		Select("members.circle_id, circles.name AS circle_name, members.id AS member_id, members.user_id, members.next_payout_date").
		Joins("JOIN circles ON circles.id = members.circle_id").
		Where("circles.status = ?", models.CircleStatusStarted).
		Where("members.payout_position = 1").
		Where("members.next_payout_date <= ?", now).
		Scan(&due).Error
	if err != nil {
		logger.Get().Errorw("payout sweep failed", "error", err)
		return nil
	}

	circleIDs := make([]uint, 0, len(due))
	for _, d := range due {
		logger.Get().Infow("payout due",
			"circle_id", d.CircleID,
			"circle", d.CircleName,
			"member_id", d.MemberID,
			"user_id", d.UserID,
			"scheduled_for", d.NextPayoutDate,
		)
		s.notifier.Notify(d.CircleID)
		circleIDs = append(circleIDs, d.CircleID)
	}
	return circleIDs
}
