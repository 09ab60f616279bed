package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-api/internal/domains/book/model"
	"library-api/internal/domains/book/service"
	"library-api/internal/shared/response"
	"library-api/pkg/cache"
)

const bookDetailTTL = 10 * time.Minute

// Handler exposes the catalog over HTTP.
type Handler struct {
	service service.ServiceInterface
	cache   cache.Cache
}

func NewHandler(service service.ServiceInterface, cache cache.Cache) *Handler {
	return &Handler{service: service, cache: cache}
}

// CreateBook - POST /api/v1/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// ListBooks - GET /api/v1/books?filter=FANTASY&sortBy=createdAt&sort=desc&limit=5
func (h *Handler) ListBooks(c *gin.Context) {
	var req model.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if err := req.Normalize(); model.HandleBookError(c, err) {
		return
	}

	books, err := h.service.ListBooks(c.Request.Context(), req)
	if model.HandleBookError(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{
		Limit: req.Limit,
		Total: len(books),
	})
}

// GetBook - GET /api/v1/books/:id
// Cache-aside: serve the cached detail when present, fill it on a miss.
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	cacheKey := model.BookDetailCacheKey(id.String())
	var cached model.Book
	found, err := h.cache.Get(c.Request.Context(), cacheKey, &cached)
	if found {
		response.Success(c, http.StatusOK, &cached)
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("book cache read failed")
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}

	if err := h.cache.Set(c.Request.Context(), cacheKey, book, bookDetailTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("book cache write failed")
	}

	response.Success(c, http.StatusOK, book)
}

// UpdateBook - PUT /api/v1/books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, book)
}

// DeleteBook - DELETE /api/v1/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteBook(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, deleted)
}

// bookID parses the :id path parameter, replying 400 on malformed input.
func bookID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Book id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
