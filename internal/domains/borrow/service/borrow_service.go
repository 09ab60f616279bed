package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	bookModel "library-api/internal/domains/book/model"
	"library-api/internal/domains/borrow/model"
	"library-api/internal/domains/borrow/repository"
	"library-api/pkg/cache"
)

type borrowService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
}

// NewService wires the borrow service.
func NewService(repo repository.RepositoryInterface, cache cache.Cache) ServiceInterface {
	return &borrowService{repo: repo, cache: cache}
}

// Borrow validates the request and runs the atomic borrow transaction.
// Cross-field checks (due date in the future) happen here; the stock
// sufficiency check happens inside the repository transaction so it cannot
// race with concurrent borrows.
func (s *borrowService) Borrow(ctx context.Context, req model.CreateBorrowRequest) (*model.Borrow, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	borrow := req.ToBorrow()
	if err := s.repo.CreateBorrow(ctx, borrow); err != nil {
		return nil, err
	}

	// The borrow changed the book's copies; drop the stale detail view.
	key := bookModel.BookDetailCacheKey(borrow.BookID.String())
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to invalidate book cache")
	}

	return borrow, nil
}

func (s *borrowService) Summary(ctx context.Context) ([]model.SummaryEntry, error) {
	return s.repo.Summary(ctx)
}

func (s *borrowService) ListOverdue(ctx context.Context, asOf time.Time) ([]model.OverdueLoan, error) {
	return s.repo.ListOverdue(ctx, asOf)
}
