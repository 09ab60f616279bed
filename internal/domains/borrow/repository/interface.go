package repository

import (
	"context"
	"time"

	"library-api/internal/domains/borrow/model"
)

// RepositoryInterface is the data access contract for the borrow ledger.
type RepositoryInterface interface {
	// CreateBorrow atomically decrements the book's copies and inserts the
	// ledger entry. Fails with bookModel.ErrBookNotFound for an unknown book
	// and model.ErrInsufficientStock when quantity exceeds current copies.
	CreateBorrow(ctx context.Context, borrow *model.Borrow) error

	// Summary returns the lifetime borrowed total per book, joined with
	// title and isbn, for every book with at least one ledger entry.
	Summary(ctx context.Context) ([]model.SummaryEntry, error)

	// ListOverdue returns ledger entries whose due date is before asOf.
	ListOverdue(ctx context.Context, asOf time.Time) ([]model.OverdueLoan, error)
}
