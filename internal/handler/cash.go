package handler

import (
	"net/http"

	"github.com/elianismedina/restaurantposapi/internal/apierror"
	"github.com/elianismedina/restaurantposapi/internal/dto"
	"github.com/elianismedina/restaurantposapi/internal/middleware"
	"github.com/elianismedina/restaurantposapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CashHandler struct{ svc service.CashService }

func NewCashHandler(svc service.CashService) *CashHandler { return &CashHandler{svc: svc} }

func callerID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid token subject"))
		return uuid.Nil, false
	}
	return id, true
}

// CreateRegister godoc
// @Summary      Create the caller's cash register
// @Description  One register per user. A second call returns 409.
// @Tags         cash
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateRegisterRequest true "Optional initial balance"
// @Success      201  {object} dto.RegisterResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cash/register [post]
func (h *CashHandler) CreateRegister(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateRegister(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CashHandler) GetRegister(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetRegister(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SettleSale godoc
// @Summary      Settle a committed cash sale
// @Description  Records the cash movement for an existing cash sale and increments the caller's register balance atomically. Each sale settles at most once.
// @Tags         cash
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SettleSaleRequest true "Sale and tendered amount"
// @Success      201  {object} dto.CashMovementResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cash/transaction [post]
func (h *CashHandler) SettleSale(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.SettleSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SettleSale(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CloseDay godoc
// @Summary      Close the caller's register for the period
// @Description  Compares expected cash (sum of movements in the period) against the counted amount, records the discrepancy, and resets the balance to zero.
// @Tags         cash
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.DailyClosingRequest true "Counted cash and optional period"
// @Success      201  {object} dto.DailyClosingResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/cash/closing [post]
func (h *CashHandler) CloseDay(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.DailyClosingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CloseDay(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CashHandler) ListClosings(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListClosings(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
