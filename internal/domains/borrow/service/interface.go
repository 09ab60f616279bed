package service

import (
	"context"
	"time"

	"library-api/internal/domains/borrow/model"
)

// ServiceInterface is the business logic contract for the borrow ledger.
type ServiceInterface interface {
	Borrow(ctx context.Context, req model.CreateBorrowRequest) (*model.Borrow, error)
	Summary(ctx context.Context) ([]model.SummaryEntry, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]model.OverdueLoan, error)
}
