package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"library-api/internal/shared/response"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrISBNAlreadyExists  = errors.New("ISBN already exists")
	ErrInvalidSort        = errors.New("invalid sort parameter")
	ErrInvalidGenreFilter = errors.New("invalid genre filter")
)

var bookErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrBookNotFound: {
		Status:  http.StatusNotFound,
		Code:    "BOOK_NOT_FOUND",
		Message: "The specified book does not exist",
	},
	ErrISBNAlreadyExists: {
		Status:  http.StatusConflict,
		Code:    "ISBN_ALREADY_EXISTS",
		Message: "This ISBN is already registered in the system",
	},
	ErrInvalidSort: {
		Status:  http.StatusBadRequest,
		Code:    "INVALID_SORT",
		Message: "Sort parameters are not valid",
	},
	ErrInvalidGenreFilter: {
		Status:  http.StatusBadRequest,
		Code:    "INVALID_GENRE",
		Message: "Genre filter must be a known genre",
	},
}

// HandleBookError maps a service error to an HTTP response.
// Returns true when err was handled (the caller should stop).
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", fieldErrs)
		return true
	}

	for sentinel, cfg := range bookErrorMap {
		if errors.Is(err, sentinel) {
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("unexpected book error")
	response.InternalServerError(c, "Internal server error")
	return true
}
