package handler

import (
	"net/http"
	"time"

	"github.com/elianismedina/restaurantposapi/internal/apierror"
	"github.com/elianismedina/restaurantposapi/internal/dto"
	"github.com/elianismedina/restaurantposapi/internal/middleware"
	"github.com/elianismedina/restaurantposapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Register godoc
// @Summary      Register a sale
// @Description  Commits the cart atomically: stock decrements, the sale row, and (for cash) the register movement all land in one transaction or not at all.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegisterSaleRequest true "Cart and payment info"
// @Success      201  {object} dto.SaleResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) Register(c *gin.Context) {
	var req dto.RegisterSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid token subject"))
		return
	}
	var branchID uuid.UUID
	if claims.BranchID != nil {
		branchID, _ = uuid.Parse(*claims.BranchID)
	}

	resp, err := h.svc.RegisterSale(c.Request.Context(), userID, branchID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List sales
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date YYYY-MM-DD"
// @Param branch_id query string false "Branch filter"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Per page (default 20)"
// @Success 200 {object} dto.SaleListResponse
// @Router /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report godoc
// @Summary Date-ranged sales report
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param from query string true "From date YYYY-MM-DD (inclusive)"
// @Param to query string true "To date YYYY-MM-DD (inclusive)"
// @Success 200 {array} dto.SaleResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/sales/report [get]
func (h *SalesHandler) Report(c *gin.Context) {
	var req dto.SalesReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	from, err := time.ParseInLocation("2006-01-02", req.From, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid from date, expected YYYY-MM-DD"))
		return
	}
	to, err := time.ParseInLocation("2006-01-02", req.To, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid to date, expected YYYY-MM-DD"))
		return
	}
	// Inclusive end of day
	to = to.Add(24*time.Hour - time.Millisecond)

	resp, err := h.svc.SalesReport(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
