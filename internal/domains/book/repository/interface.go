package repository

import (
	"context"

	"github.com/google/uuid"

	"library-api/internal/domains/book/model"
)

// RepositoryInterface is the data access contract for the catalog.
type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uuid.UUID) (*model.Book, error)
}
