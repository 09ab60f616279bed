package model_test

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/domains/book/model"
)

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func validCreateRequest() model.CreateBookRequest {
	return model.CreateBookRequest{
		Title:       "The Hobbit",
		Author:      "J.R.R. Tolkien",
		Genre:       "FANTASY",
		ISBN:        "978-0-261-10221-7",
		Description: "A hobbit goes on an adventure",
		Copies:      intPtr(3),
	}
}

func Test_CreateBookRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req *model.CreateBookRequest)
		wantField string
	}{
		{
			name:   "valid_request_passes",
			mutate: func(req *model.CreateBookRequest) {},
		},
		{
			name:      "missing_title",
			mutate:    func(req *model.CreateBookRequest) { req.Title = "" },
			wantField: "title",
		},
		{
			name:      "missing_author",
			mutate:    func(req *model.CreateBookRequest) { req.Author = "" },
			wantField: "author",
		},
		{
			name:      "missing_genre",
			mutate:    func(req *model.CreateBookRequest) { req.Genre = "" },
			wantField: "genre",
		},
		{
			name:      "unknown_genre",
			mutate:    func(req *model.CreateBookRequest) { req.Genre = "ROMANCE" },
			wantField: "genre",
		},
		{
			name:      "isbn_with_letters",
			mutate:    func(req *model.CreateBookRequest) { req.ISBN = "978-X-INVALID" },
			wantField: "isbn",
		},
		{
			name:      "missing_isbn",
			mutate:    func(req *model.CreateBookRequest) { req.ISBN = "" },
			wantField: "isbn",
		},
		{
			name:      "missing_copies",
			mutate:    func(req *model.CreateBookRequest) { req.Copies = nil },
			wantField: "copies",
		},
		{
			name:      "negative_copies",
			mutate:    func(req *model.CreateBookRequest) { req.Copies = intPtr(-1) },
			wantField: "copies",
		},
		{
			name:   "zero_copies_is_allowed",
			mutate: func(req *model.CreateBookRequest) { req.Copies = intPtr(0) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)

			err := req.Validate()

			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var fieldErrs validation.Errors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Contains(t, fieldErrs, tc.wantField)
		})
	}
}

func Test_CreateBookRequest_ToBook_DerivesAvailability(t *testing.T) {
	withCopies := validCreateRequest()
	book := withCopies.ToBook()
	assert.True(t, book.Available)
	assert.Equal(t, 3, book.Copies)
	assert.NotEqual(t, book.ID.String(), "00000000-0000-0000-0000-000000000000")

	empty := validCreateRequest()
	empty.Copies = intPtr(0)
	book = empty.ToBook()
	assert.False(t, book.Available)
	assert.Equal(t, 0, book.Copies)
}

func Test_UpdateBookRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       model.UpdateBookRequest
		wantField string
	}{
		{
			name: "empty_request_is_valid",
			req:  model.UpdateBookRequest{},
		},
		{
			name: "partial_fields_are_valid",
			req:  model.UpdateBookRequest{Title: strPtr("New Title"), Copies: intPtr(5)},
		},
		{
			name:      "empty_title_rejected",
			req:       model.UpdateBookRequest{Title: strPtr("")},
			wantField: "title",
		},
		{
			name:      "unknown_genre_rejected",
			req:       model.UpdateBookRequest{Genre: strPtr("HORROR")},
			wantField: "genre",
		},
		{
			name:      "isbn_with_letters_rejected",
			req:       model.UpdateBookRequest{ISBN: strPtr("ABC-123")},
			wantField: "isbn",
		},
		{
			name:      "negative_copies_rejected",
			req:       model.UpdateBookRequest{Copies: intPtr(-2)},
			wantField: "copies",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()

			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var fieldErrs validation.Errors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Contains(t, fieldErrs, tc.wantField)
		})
	}
}

func Test_UpdateBookRequest_Apply_RederivesAvailability(t *testing.T) {
	book := validCreateRequest().ToBook()
	require.True(t, book.Available)

	drain := model.UpdateBookRequest{Copies: intPtr(0)}
	drain.Apply(book)
	assert.Equal(t, 0, book.Copies)
	assert.False(t, book.Available)

	restock := model.UpdateBookRequest{Copies: intPtr(7)}
	restock.Apply(book)
	assert.Equal(t, 7, book.Copies)
	assert.True(t, book.Available)

	// A title-only update must not touch copies or availability.
	before := book.Copies
	rename := model.UpdateBookRequest{Title: strPtr("Renamed")}
	rename.Apply(book)
	assert.Equal(t, "Renamed", book.Title)
	assert.Equal(t, before, book.Copies)
	assert.True(t, book.Available)
}

func Test_ListBooksRequest_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		req     model.ListBooksRequest
		wantErr error
		check   func(t *testing.T, req model.ListBooksRequest)
	}{
		{
			name: "defaults_applied",
			req:  model.ListBooksRequest{},
			check: func(t *testing.T, req model.ListBooksRequest) {
				assert.Equal(t, model.DefaultListLimit, req.Limit)
				assert.Equal(t, "createdAt", req.SortBy)
				assert.Equal(t, "asc", req.Sort)
			},
		},
		{
			name: "limit_capped",
			req:  model.ListBooksRequest{Limit: 5000},
			check: func(t *testing.T, req model.ListBooksRequest) {
				assert.Equal(t, model.MaxListLimit, req.Limit)
			},
		},
		{
			name:    "unknown_sort_column_rejected",
			req:     model.ListBooksRequest{SortBy: "price; DROP TABLE books"},
			wantErr: model.ErrInvalidSort,
		},
		{
			name:    "unknown_sort_direction_rejected",
			req:     model.ListBooksRequest{Sort: "sideways"},
			wantErr: model.ErrInvalidSort,
		},
		{
			name:    "unknown_genre_filter_rejected",
			req:     model.ListBooksRequest{Genre: "ROMANCE"},
			wantErr: model.ErrInvalidGenreFilter,
		},
		{
			name: "valid_filter_and_sort_pass",
			req:  model.ListBooksRequest{Genre: "SCIENCE", SortBy: "title", Sort: "desc", Limit: 25},
			check: func(t *testing.T, req model.ListBooksRequest) {
				filter := req.ToFilter()
				assert.Equal(t, "SCIENCE", filter.Genre)
				assert.Equal(t, "title", filter.SortCol)
				assert.True(t, filter.SortDesc)
				assert.Equal(t, 25, filter.Limit)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Normalize()

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			if tc.check != nil {
				tc.check(t, tc.req)
			}
		})
	}
}

func Test_Genre_IsValid(t *testing.T) {
	for _, g := range model.Genres() {
		assert.True(t, g.IsValid(), g.String())
	}
	assert.False(t, model.Genre("ROMANCE").IsValid())
	assert.False(t, model.Genre("fiction").IsValid())
	assert.False(t, model.Genre("").IsValid())
}

func Test_BookDetailCacheKey(t *testing.T) {
	assert.Equal(t, "book:detail:abc", model.BookDetailCacheKey("abc"))
}

// Guards against validation accepting stale timestamps; ToBook must stamp
// creation time close to now.
func Test_CreateBookRequest_ToBook_Timestamps(t *testing.T) {
	book := validCreateRequest().ToBook()
	assert.WithinDuration(t, time.Now(), book.CreatedAt, time.Second)
	assert.Equal(t, book.CreatedAt, book.UpdatedAt)
}
