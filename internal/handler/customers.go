package handler

import (
	"net/http"

	"github.com/elianismedina/restaurantposapi/internal/apierror"
	"github.com/elianismedina/restaurantposapi/internal/dto"
	"github.com/elianismedina/restaurantposapi/internal/model"
	"github.com/elianismedina/restaurantposapi/internal/repository"
	"github.com/elianismedina/restaurantposapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CustomersHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.GetCustomer(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) List(c *gin.Context) {
	resp, err := h.svc.ListCustomers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list customers"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Branches ─────────────────────────────────────────────────────────────────
// Branches are context-bearing reference data; the handler talks to the
// repository directly.

type BranchesHandler struct{ repo repository.BranchRepository }

func NewBranchesHandler(repo repository.BranchRepository) *BranchesHandler {
	return &BranchesHandler{repo: repo}
}

func (h *BranchesHandler) Create(c *gin.Context) {
	var req dto.CreateBranchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid restaurant_id"))
		return
	}
	b := &model.Branch{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Address:      req.Address,
	}
	if err := h.repo.Create(c.Request.Context(), b); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, branchToResponse(b))
}

func (h *BranchesHandler) List(c *gin.Context) {
	branches, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list branches"))
		return
	}
	out := make([]dto.BranchResponse, 0, len(branches))
	for i := range branches {
		out = append(out, *branchToResponse(&branches[i]))
	}
	c.JSON(http.StatusOK, out)
}

func branchToResponse(b *model.Branch) *dto.BranchResponse {
	resp := &dto.BranchResponse{
		ID:      b.ID.String(),
		Name:    b.Name,
		Address: b.Address,
	}
	if b.Restaurant != nil {
		resp.Restaurant = b.Restaurant.Name
	}
	return resp
}
