package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "esusu/internal/errors"
	"esusu/internal/services"
)

// RotationHandler handles payout rotation requests.
type RotationHandler struct {
	rotationService services.RotationServicer
	auditService    services.AuditServicer
}

// NewRotationHandler creates a new RotationHandler.
func NewRotationHandler(rotationService services.RotationServicer, auditService services.AuditServicer) *RotationHandler {
	return &RotationHandler{rotationService: rotationService, auditService: auditService}
}

// AdvanceRotationRequest represents the request payload for advancing the
// rotation. MemberID is optional: when set, that positioned member is paid
// out instead of the position 1 holder.
type AdvanceRotationRequest struct {
	MemberID *uint `json:"member_id"`
}

// GetRotation returns the circle's rotation snapshot
// @Summary     Get rotation status
// @Description Get the payout rotation snapshot for a circle; members only
// @Tags        rotation
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Circle ID"
// @Success     200 {object} services.RotationStatus "Rotation snapshot"
// @Failure     400 {object} ErrorResponse "Invalid circle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a circle member"
// @Failure     404 {object} ErrorResponse "Circle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles/{id}/rotation [get]
func (h *RotationHandler) GetRotation(c *gin.Context) {
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

	status, err := h.rotationService.GetStatus(userID, circleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// InitializeRotation assigns payout positions and schedules the first payout
// @Summary     Initialize rotation
// @Description Assign payout positions in join order and schedule the first payout; admin only
// @Tags        rotation
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Circle ID"
// @Success     200 {object} services.RotationStatus "Rotation initialized"
// @Failure     400 {object} ErrorResponse "Invalid circle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a circle admin"
// @Failure     404 {object} ErrorResponse "Circle not found"
// @Failure     409 {object} ErrorResponse "Circle not active or rotation already initialized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles/{id}/rotation/initialize [post]
func (h *RotationHandler) InitializeRotation(c *gin.Context) {
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

	status, err := h.rotationService.Initialize(circleID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "INITIALIZE_ROTATION", "circle", circleID, c.ClientIP(),
		map[string]interface{}{"total_members": status.TotalMembers})

	c.JSON(http.StatusOK, status)
}

// AdvanceRotation pays out the member next in line and shifts the queue
// @Summary     Advance rotation
// @Description Mark the next member as paid, shift remaining positions down, and schedule the next payout; admin only
// @Tags        rotation
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                     true  "Circle ID"
// @Param       request body AdvanceRotationRequest  false "Optional specific member to pay out"
// @Success     200 {object} services.RotationStatus "Rotation advanced"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a circle admin"
// @Failure     404 {object} ErrorResponse "Circle or member not found"
// @Failure     409 {object} ErrorResponse "Rotation not initialized, member not in rotation, or rotation complete"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles/{id}/rotation/advance [post]
func (h *RotationHandler) AdvanceRotation(c *gin.Context) {
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

	var req AdvanceRotationRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	status, err := h.rotationService.Advance(circleID, userID, req.MemberID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{"rotation_complete": status.RotationComplete}
	if req.MemberID != nil {
		changes["member_id"] = *req.MemberID
	}
	h.auditService.Log(userID, "ADVANCE_ROTATION", "circle", circleID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, status)
}
