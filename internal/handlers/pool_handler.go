package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"esusu/internal/services"
)

// PoolHandler handles pool balance requests.
type PoolHandler struct {
	poolService services.PoolServicer
}

// NewPoolHandler creates a new PoolHandler.
func NewPoolHandler(poolService services.PoolServicer) *PoolHandler {
	return &PoolHandler{poolService: poolService}
}

// GetPool returns the circle's pool balances
// @Summary     Get pool info
// @Description Get the circle's pool balances, recent payouts, and next scheduled payout; members only
// @Tags        pool
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Circle ID"
// @Success     200 {object} services.PoolInfo "Pool balances"
// @Failure     400 {object} ErrorResponse "Invalid circle ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a circle member"
// @Failure     404 {object} ErrorResponse "Circle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /circles/{id}/pool [get]
func (h *PoolHandler) GetPool(c *gin.Context) {
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

	info, err := h.poolService.GetPoolInfo(userID, circleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
