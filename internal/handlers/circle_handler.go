package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "esusu/internal/errors"
	"esusu/internal/models"
	"esusu/internal/pagination"
	"esusu/internal/services"
)

// CircleHandler handles circle and roster requests.
type CircleHandler struct {
	circleService services.CircleServicer
	auditService  services.AuditServicer
}

// NewCircleHandler creates a new CircleHandler.
func NewCircleHandler(circleService services.CircleServicer, auditService services.AuditServicer) *CircleHandler {
	return &CircleHandler{circleService: circleService, auditService: auditService}
}

// CreateCircleRequest represents the request payload for creating a circle
type CreateCircleRequest struct {
	Name               string           `json:"name" binding:"required,max=100"`
	Description        string           `json:"description" binding:"max=500"`
	ContributionAmount int64            `json:"contribution_amount" binding:"required,gt=0"`
	Currency           string           `json:"currency" binding:"omitempty,iso4217"`
	Frequency          models.Frequency `json:"frequency" binding:"required,frequency"`
}

// JoinCircleRequest represents the request payload for joining a circle
type JoinCircleRequest struct {
	InviteCode string `json:"invite_code" binding:"required,max=16"`
}

// CircleResponse represents a circle in the response
type CircleResponse struct {
	ID                 uint                `json:"id"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	ContributionAmount int64               `json:"contribution_amount"`
	Currency           string              `json:"currency"`
	Frequency          models.Frequency    `json:"frequency"`
	Status             models.CircleStatus `json:"status"`
	InviteCode         string              `json:"invite_code"`
}

// CreateCircle handles the creation of a new savings circle
// @Summary     Create a circle
// @Description Create a new savings circle; the caller becomes its admin member
// @Tags        circles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCircleRequest true "Circle details"
// @Success     201 {object} CircleResponse "Circle created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles [post]
func (h *CircleHandler) CreateCircle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCircleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	circle, err := h.circleService.CreateCircle(userID, req.Name, req.Description,
		req.ContributionAmount, req.Currency, req.Frequency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CIRCLE", "circle", circle.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "frequency": req.Frequency, "contribution_amount": req.ContributionAmount})

	c.JSON(http.StatusCreated, gin.H{"circle": circle})
}

// GetUserCircles handles the retrieval of the caller's circles
// @Summary     List my circles
// @Description Get a paginated list of circles the authenticated user belongs to
// @Tags        circles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Circle] "Paginated circles"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles [get]
func (h *CircleHandler) GetUserCircles(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.circleService.GetUserCircles(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCircle handles the retrieval of a single circle with its roster
// @Summary     Get circle by ID
// @Description Get a circle and its member roster; members only
// @Tags        circles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Circle ID"
// @Success     200 {object} CircleResponse "Circle details"
// @Failure     400 {object} ErrorResponse "Invalid circle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a circle member"
// @Failure     404 {object} ErrorResponse "Circle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles/{id} [get]
func (h *CircleHandler) GetCircle(c *gin.Context) {
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

	circle, err := h.circleService.GetCircleByID(userID, circleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"circle": circle})
}

// JoinCircle handles joining a circle via invite code
// @Summary     Join a circle
// @Description Join a pending circle using its invite code
// @Tags        circles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body JoinCircleRequest true "Invite code"
// @Success     201 {object} models.Member "Membership created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Unknown invite code"
// @Failure     409 {object} ErrorResponse "Already a member or circle not joinable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles/join [post]
func (h *CircleHandler) JoinCircle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req JoinCircleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.circleService.JoinCircle(userID, req.InviteCode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "JOIN_CIRCLE", "circle", member.CircleID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// GetStartEligibility reports whether a circle may be started
// @Summary     Get start eligibility
// @Description Report whether the circle meets its contribution coverage threshold to start
// @Tags        circles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Circle ID"
// @Success     200 {object} services.StartEligibilityResult "Start eligibility"
// @Failure     400 {object} ErrorResponse "Invalid circle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a circle member"
// @Failure     404 {object} ErrorResponse "Circle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles/{id}/start-eligibility [get]
func (h *CircleHandler) GetStartEligibility(c *gin.Context) {
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

	result, err := h.circleService.GetStartEligibility(userID, circleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// StartCircle handles starting a circle
// @Summary     Start a circle
// @Description Move a pending circle to active once the contribution threshold is met; admin only
// @Tags        circles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Circle ID"
// @Success     200 {object} CircleResponse "Circle started"
// @Failure     400 {object} ErrorResponse "Invalid circle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a circle admin"
// @Failure     404 {object} ErrorResponse "Circle not found"
// @Failure     409 {object} ErrorResponse "Circle not startable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles/{id}/start [post]
func (h *CircleHandler) StartCircle(c *gin.Context) {
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

	circle, err := h.circleService.StartCircle(userID, circleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "START_CIRCLE", "circle", circleID, c.ClientIP(),
		map[string]interface{}{"status": circle.Status})

	c.JSON(http.StatusOK, gin.H{"circle": circle})
}
