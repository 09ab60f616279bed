package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	bookModel "library-api/internal/domains/book/model"
	"library-api/internal/domains/borrow/model"
	"library-api/pkg/database"
)

// postgresRepository implements RepositoryInterface.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// CreateBorrow runs the borrow transaction.
//
// The stock check and the decrement are a single conditional UPDATE: the
// WHERE clause "copies >= quantity" is the sufficiency check, so two
// concurrent borrows can never both pass against the same stale copies
// value. Availability is recomputed in the same statement. The ledger row
// is inserted in the same transaction, so a failed insert rolls the
// decrement back.
func (r *postgresRepository) CreateBorrow(ctx context.Context, borrow *model.Borrow) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		decrement := `
			UPDATE books
			SET
				copies = copies - $2,
				available = copies - $2 > 0,
				updated_at = NOW()
			WHERE id = $1 AND copies >= $2
		`

		tag, err := tx.Exec(ctx, decrement, borrow.BookID, borrow.Quantity)
		if err != nil {
			return fmt.Errorf("failed to decrement copies: %w", err)
		}

		if tag.RowsAffected() == 0 {
			// Either the book does not exist or the stock is insufficient;
			// an existence check tells the two apart.
			var exists bool
			checkQuery := "SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)"
			if err := tx.QueryRow(ctx, checkQuery, borrow.BookID).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check book existence: %w", err)
			}
			if !exists {
				return bookModel.ErrBookNotFound
			}
			return model.ErrInsufficientStock
		}

		insert := `
			INSERT INTO borrows (id, book_id, quantity, due_date)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at, updated_at
		`

		err = tx.QueryRow(ctx, insert,
			borrow.ID,
			borrow.BookID,
			borrow.Quantity,
			borrow.DueDate,
		).Scan(&borrow.CreatedAt, &borrow.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert borrow: %w", err)
		}

		return nil
	})
}

// Summary aggregates the ledger by book and joins the catalog metadata.
// Entries whose book has been deleted drop out of the join.
func (r *postgresRepository) Summary(ctx context.Context) ([]model.SummaryEntry, error) {
	query := `
		SELECT b.title, b.isbn, SUM(br.quantity) AS total_quantity
		FROM borrows br
		JOIN books b ON b.id = br.book_id
		GROUP BY b.id, b.title, b.isbn
		ORDER BY total_quantity DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query borrow summary: %w", err)
	}
	defer rows.Close()

	entries := make([]model.SummaryEntry, 0)
	for rows.Next() {
		var entry model.SummaryEntry
		if err := rows.Scan(&entry.Book.Title, &entry.Book.ISBN, &entry.TotalQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary rows: %w", err)
	}

	return entries, nil
}

// ListOverdue returns every ledger entry past its due date.
func (r *postgresRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]model.OverdueLoan, error) {
	query := `
		SELECT br.id, br.book_id, b.title, br.quantity, br.due_date
		FROM borrows br
		JOIN books b ON b.id = br.book_id
		WHERE br.due_date < $1
		ORDER BY br.due_date ASC
	`

	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue loans: %w", err)
	}
	defer rows.Close()

	loans := make([]model.OverdueLoan, 0)
	for rows.Next() {
		var loan model.OverdueLoan
		if err := rows.Scan(&loan.BorrowID, &loan.BookID, &loan.BookTitle, &loan.Quantity, &loan.DueDate); err != nil {
			return nil, fmt.Errorf("failed to scan overdue row: %w", err)
		}
		loans = append(loans, loan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overdue rows: %w", err)
	}

	return loans, nil
}
