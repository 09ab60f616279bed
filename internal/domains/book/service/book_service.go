package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-api/internal/domains/book/model"
	"library-api/internal/domains/book/repository"
	"library-api/pkg/cache"
)

type bookService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
}

// NewService wires the catalog service.
func NewService(repo repository.RepositoryInterface, cache cache.Cache) ServiceInterface {
	return &bookService{repo: repo, cache: cache}
}

// CreateBook validates the request at field level and persists a new book.
// ISBN uniqueness is enforced by the database; a collision surfaces as
// model.ErrISBNAlreadyExists without touching the existing record.
func (s *bookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book := req.ToBook()
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

func (s *bookService) GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) ListBooks(ctx context.Context, req model.ListBooksRequest) ([]model.Book, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, req.ToFilter())
}

// UpdateBook applies a partial update. Only the fields present in the request
// are validated and changed; availability follows copies inside the same
// repository statement.
func (s *bookService) UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(book)

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	s.invalidateDetail(ctx, id)
	return book, nil
}

func (s *bookService) DeleteBook(ctx context.Context, id uuid.UUID) (*model.DeleteBookResponse, error) {
	book, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateDetail(ctx, id)

	return &model.DeleteBookResponse{
		ID:        book.ID,
		Title:     book.Title,
		DeletedAt: time.Now(),
	}, nil
}

// invalidateDetail drops the cached detail view after a mutation.
// Cache failures are logged, never surfaced.
func (s *bookService) invalidateDetail(ctx context.Context, id uuid.UUID) {
	key := model.BookDetailCacheKey(id.String())
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to invalidate book cache")
	}
}
