package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-api/internal/domains/book/model"
)

const pgUniqueViolation = "23505"

// postgresRepository implements RepositoryInterface.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const bookColumns = `id, title, author, genre, isbn, description, copies, available, created_at, updated_at`

func scanBook(row pgx.Row, b *model.Book) error {
	return row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Genre,
		&b.ISBN,
		&b.Description,
		&b.Copies,
		&b.Available,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}

// Create inserts a book. Availability is derived inside the statement so the
// invariant available == (copies > 0) cannot drift from the stored copies.
func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (id, title, author, genre, isbn, description, copies, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7 > 0)
		RETURNING available, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Genre,
		book.ISBN,
		book.Description,
		book.Copies,
	).Scan(&book.Available, &book.CreatedAt, &book.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return model.ErrISBNAlreadyExists
		}
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

// GetByID fetches a single book.
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	var book model.Book
	if err := scanBook(r.pool.QueryRow(ctx, query, id), &book); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	return &book, nil
}

// List returns books matching the filter, ordered and capped.
// The sort column comes from a whitelist in the model, never from raw input.
func (r *postgresRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books`

	args := []interface{}{}
	argCount := 1

	if filter.Genre != "" {
		query += fmt.Sprintf(" WHERE genre = $%d", argCount)
		args = append(args, filter.Genre)
		argCount++
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", filter.SortCol, direction)

	query += fmt.Sprintf(" LIMIT $%d", argCount)
	args = append(args, filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, filter.Limit)
	for rows.Next() {
		var book model.Book
		if err := scanBook(rows, &book); err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating book rows: %w", err)
	}

	return books, nil
}

// Update persists the full entity. Availability is recomputed from the copies
// value in the same statement.
func (r *postgresRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET
			title = $2,
			author = $3,
			genre = $4,
			isbn = $5,
			description = $6,
			copies = $7,
			available = $7 > 0,
			updated_at = NOW()
		WHERE id = $1
		RETURNING available, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Genre,
		book.ISBN,
		book.Description,
		book.Copies,
	).Scan(&book.Available, &book.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBookNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return model.ErrISBNAlreadyExists
		}
		return fmt.Errorf("failed to update book: %w", err)
	}

	return nil
}

// Delete removes a book and returns the removed row.
// Borrow records are a soft reference; they stay untouched.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := `DELETE FROM books WHERE id = $1 RETURNING ` + bookColumns

	var book model.Book
	if err := scanBook(r.pool.QueryRow(ctx, query, id), &book); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to delete book: %w", err)
	}

	return &book, nil
}
