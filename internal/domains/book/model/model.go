package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Genre represents the catalog genres.
type Genre string

const (
	GenreFiction    Genre = "FICTION"
	GenreNonFiction Genre = "NON_FICTION"
	GenreScience    Genre = "SCIENCE"
	GenreHistory    Genre = "HISTORY"
	GenreBiography  Genre = "BIOGRAPHY"
	GenreFantasy    Genre = "FANTASY"
)

func (g Genre) IsValid() bool {
	switch g {
	case GenreFiction, GenreNonFiction, GenreScience, GenreHistory, GenreBiography, GenreFantasy:
		return true
	}
	return false
}

func (g Genre) String() string {
	return string(g)
}

// Genres lists every valid genre, in declaration order.
func Genres() []Genre {
	return []Genre{GenreFiction, GenreNonFiction, GenreScience, GenreHistory, GenreBiography, GenreFantasy}
}

// ISBNs are digits and hyphens only.
var isbnPattern = regexp.MustCompile(`^[\d-]+$`)

const (
	msgGenreOneOf  = "Genre must be one of: FICTION, NON_FICTION, SCIENCE, HISTORY, BIOGRAPHY, FANTASY"
	msgISBNFormat  = "ISBN must contain only digits and hyphens"
	msgCopiesMin   = "Copies must be a positive number"
	msgCopiesIsReq = "Copies field is required"
)

// Book is the catalog entity.
// Available is derived: it mirrors copies > 0 and is recomputed in the same
// SQL statement as every copies mutation.
type Book struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Author      string    `json:"author" db:"author"`
	Genre       Genre     `json:"genre" db:"genre"`
	ISBN        string    `json:"isbn" db:"isbn"`
	Description string    `json:"description" db:"description"`
	Copies      int       `json:"copies" db:"copies"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ============ DTOs ============

// CreateBookRequest - payload for POST /books.
// Copies is a pointer so that an explicit 0 can be told apart from a missing field.
type CreateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	ISBN        string `json:"isbn"`
	Description string `json:"description"`
	Copies      *int   `json:"copies"`
}

// Validate performs field-level validation and returns ozzo validation.Errors
// keyed by field name.
func (req CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required.Error("Title is required")),
		validation.Field(&req.Author, validation.Required.Error("Author is required")),
		validation.Field(&req.Genre,
			validation.Required.Error("Genre is required"),
			validation.In(genreValues()...).Error(msgGenreOneOf),
		),
		validation.Field(&req.ISBN,
			validation.Required.Error("ISBN is required"),
			validation.Match(isbnPattern).Error(msgISBNFormat),
		),
		validation.Field(&req.Copies,
			validation.NotNil.Error(msgCopiesIsReq),
			validation.Min(0).Error(msgCopiesMin),
		),
	)
}

// ToBook builds a new Book entity from a validated request.
func (req CreateBookRequest) ToBook() *Book {
	copies := 0
	if req.Copies != nil {
		copies = *req.Copies
	}

	now := time.Now()
	return &Book{
		ID:          uuid.New(),
		Title:       req.Title,
		Author:      req.Author,
		Genre:       Genre(req.Genre),
		ISBN:        req.ISBN,
		Description: req.Description,
		Copies:      copies,
		Available:   copies > 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdateBookRequest - payload for PUT /books/:id.
// Every field is optional; nil means "leave unchanged".
type UpdateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Genre       *string `json:"genre"`
	ISBN        *string `json:"isbn"`
	Description *string `json:"description"`
	Copies      *int    `json:"copies"`
}

// Validate checks only the fields that are present.
func (req UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.NilOrNotEmpty.Error("Title must not be empty")),
		validation.Field(&req.Author, validation.NilOrNotEmpty.Error("Author must not be empty")),
		validation.Field(&req.Genre, validation.In(genreValues()...).Error(msgGenreOneOf)),
		validation.Field(&req.ISBN,
			validation.NilOrNotEmpty.Error("ISBN must not be empty"),
			validation.Match(isbnPattern).Error(msgISBNFormat),
		),
		validation.Field(&req.Copies, validation.Min(0).Error(msgCopiesMin)),
	)
}

// Apply copies the present fields onto an existing book and re-derives
// availability when copies changed.
func (req UpdateBookRequest) Apply(book *Book) {
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Genre != nil {
		book.Genre = Genre(*req.Genre)
	}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.Copies != nil {
		book.Copies = *req.Copies
		book.Available = book.Copies > 0
	}
	book.UpdatedAt = time.Now()
}

// ListBooksRequest - query parameters for GET /books.
type ListBooksRequest struct {
	Genre  string `form:"filter"`
	SortBy string `form:"sortBy"`
	Sort   string `form:"sort"`
	Limit  int    `form:"limit"`
}

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// sortColumns whitelists the sortable fields against their columns.
var sortColumns = map[string]string{
	"title":     "title",
	"author":    "author",
	"genre":     "genre",
	"isbn":      "isbn",
	"copies":    "copies",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// Normalize applies defaults and validates filter/sort parameters.
func (req *ListBooksRequest) Normalize() error {
	if req.Limit <= 0 {
		req.Limit = DefaultListLimit
	}
	if req.Limit > MaxListLimit {
		req.Limit = MaxListLimit
	}

	if req.SortBy == "" {
		req.SortBy = "createdAt"
	}
	if _, ok := sortColumns[req.SortBy]; !ok {
		return ErrInvalidSort
	}

	switch req.Sort {
	case "":
		req.Sort = "asc"
	case "asc", "desc":
	default:
		return ErrInvalidSort
	}

	if req.Genre != "" && !Genre(req.Genre).IsValid() {
		return ErrInvalidGenreFilter
	}

	return nil
}

// BookFilter is the repository-level view of a normalized list request.
type BookFilter struct {
	Genre    string
	SortCol  string
	SortDesc bool
	Limit    int
}

// ToFilter converts a normalized request into a repository filter.
// Normalize must have been called first.
func (req ListBooksRequest) ToFilter() BookFilter {
	return BookFilter{
		Genre:    req.Genre,
		SortCol:  sortColumns[req.SortBy],
		SortDesc: req.Sort == "desc",
		Limit:    req.Limit,
	}
}

// DeleteBookResponse - confirmation payload for DELETE /books/:id.
type DeleteBookResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	DeletedAt time.Time `json:"deleted_at"`
}

// BookDetailCacheKey builds the cache key for a book detail read.
func BookDetailCacheKey(bookID string) string {
	return "book:detail:" + bookID
}

func genreValues() []interface{} {
	genres := Genres()
	values := make([]interface{}, len(genres))
	for i, g := range genres {
		values[i] = string(g)
	}
	return values
}
