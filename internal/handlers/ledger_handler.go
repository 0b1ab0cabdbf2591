package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "esusu/internal/errors"
	"esusu/internal/models"
	"esusu/internal/pagination"
	"esusu/internal/services"
)

// LedgerHandler handles contribution, payout, and ledger requests.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, auditService: auditService}
}

// RecordPayoutRequest represents the request payload for recording a payout
type RecordPayoutRequest struct {
	UserID uint  `json:"user_id" binding:"required"`
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// UpdateTransactionStatusRequest represents a status report from the payment
// collaborator
type UpdateTransactionStatusRequest struct {
	Status models.TransactionStatus `json:"status" binding:"required,transaction_status"`
}

// GetEligibility reports whether the caller may contribute right now
// @Summary     Get contribution eligibility
// @Description Report whether the authenticated member may contribute in the current cycle window
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Circle ID"
// @Success     200 {object} services.EligibilityResult "Eligibility with cycle window"
// @Failure     400 {object} ErrorResponse "Invalid circle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a circle member"
// @Failure     404 {object} ErrorResponse "Circle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles/{id}/eligibility [get]
func (h *LedgerHandler) GetEligibility(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	circleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledgerService.CanContribute(circleID, userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RecordContribution records a contribution for the current cycle window
// @Summary     Record a contribution
// @Description Record a pending contribution for the authenticated member in the current cycle window
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Circle ID"
// @Success     201 {object} models.Transaction "Contribution recorded"
// @Failure     400 {object} ErrorResponse "Invalid circle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a circle member"
// @Failure     404 {object} ErrorResponse "Circle not found"
// @Failure     409 {object} ErrorResponse "Contribution window closed or circle completed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles/{id}/contributions [post]
func (h *LedgerHandler) RecordContribution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	circleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.ledgerService.RecordContribution(circleID, userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RECORD_CONTRIBUTION", "transaction", entry.ID, c.ClientIP(),
		map[string]interface{}{"circle_id": circleID, "amount": entry.Amount})

	c.JSON(http.StatusCreated, gin.H{"transaction": entry})
}

// RecordPayout records a payout to a circle member
// @Summary     Record a payout
// @Description Record a pending payout to a circle member; admin only
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Circle ID"
// @Param       request body RecordPayoutRequest true "Payout recipient and amount (cents)"
// @Success     201 {object} models.Transaction "Payout recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a circle admin"
// @Failure     404 {object} ErrorResponse "Circle or member not found"
// @Failure     409 {object} ErrorResponse "Insufficient pool"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles/{id}/payouts [post]
func (h *LedgerHandler) RecordPayout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	circleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.ledgerService.RecordPayout(circleID, userID, req.UserID, req.Amount, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RECORD_PAYOUT", "transaction", entry.ID, c.ClientIP(),
		map[string]interface{}{"circle_id": circleID, "recipient_id": req.UserID, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"transaction": entry})
}

// UpdateTransactionStatus applies a payment status report to a ledger entry
// @Summary     Update transaction status
// @Description Apply a payment status report from the payment collaborator to a ledger entry
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                            true "Transaction ID"
// @Param       request body UpdateTransactionStatusRequest true "New status"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Invalid status transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id}/status [post]
func (h *LedgerHandler) UpdateTransactionStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.ledgerService.UpdateTransactionStatus(transactionID, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION_STATUS", "transaction", transactionID, c.ClientIP(),
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"transaction": entry})
}

// GetCircleTransactions handles the retrieval of a circle's ledger
// @Summary     Get circle transactions
// @Description Get a paginated ledger view for a circle with optional filters; members only
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int    true  "Circle ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       type      query string false "Filter by type (contribution, payout)"
// @Param       status    query string false "Filter by status (pending, processing, completed, failed, cancelled)"
// @Param       from_date query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a circle member"
// @Failure     404 {object} ErrorResponse "Circle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles/{id}/transactions [get]
func (h *LedgerHandler) GetCircleTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	circleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledgerService.GetCircleTransactions(userID, circleID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		switch txType {
		case models.TransactionTypeContribution, models.TransactionTypePayout:
			filter.Type = &txType
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be contribution or payout")
		}
	}

	if v := c.Query("status"); v != "" {
		status := models.TransactionStatus(v)
		switch status {
		case models.TransactionStatusPending, models.TransactionStatusProcessing,
			models.TransactionStatusCompleted, models.TransactionStatusFailed,
			models.TransactionStatusCancelled:
			filter.Status = &status
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid status")
		}
	}

	return filter, nil
}
