package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-api/internal/domains/borrow/model"
	"library-api/internal/domains/borrow/service"
	"library-api/internal/shared/response"
)

// Handler exposes the borrow ledger over HTTP.
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// CreateBorrow - POST /api/v1/borrows
func (h *Handler) CreateBorrow(c *gin.Context) {
	var req model.CreateBorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	borrow, err := h.service.Borrow(c.Request.Context(), req)
	if model.HandleBorrowError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, borrow)
}

// Summary - GET /api/v1/borrows/summary
func (h *Handler) Summary(c *gin.Context) {
	entries, err := h.service.Summary(c.Request.Context())
	if model.HandleBorrowError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, entries)
}
