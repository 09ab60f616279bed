package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	bookModel "library-api/internal/domains/book/model"
	"library-api/internal/shared/response"
)

var (
	ErrInsufficientStock = errors.New("not enough copies in stock")

	errDueDateNotFuture = errors.New("Due date must be in the future")
)

var borrowErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrInsufficientStock: {
		Status:  http.StatusBadRequest,
		Code:    "INSUFFICIENT_STOCK",
		Message: "Not enough copies in stock",
	},
	bookModel.ErrBookNotFound: {
		Status:  http.StatusNotFound,
		Code:    "BOOK_NOT_FOUND",
		Message: "The specified book does not exist",
	},
}

// HandleBorrowError maps a service error to an HTTP response.
// Returns true when err was handled.
func HandleBorrowError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", fieldErrs)
		return true
	}

	for sentinel, cfg := range borrowErrorMap {
		if errors.Is(err, sentinel) {
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("unexpected borrow error")
	response.InternalServerError(c, "Internal server error")
	return true
}
