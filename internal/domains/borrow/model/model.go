package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Borrow is one entry in the append-only borrow ledger.
// Records are created through the borrow transaction and never updated
// or deleted afterwards.
type Borrow struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BookID    uuid.UUID `json:"book_id" db:"book_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	DueDate   time.Time `json:"due_date" db:"due_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateBorrowRequest - payload for POST /borrows.
type CreateBorrowRequest struct {
	BookID   string    `json:"book_id"`
	Quantity int       `json:"quantity"`
	DueDate  time.Time `json:"due_date"`
}

// Validate performs field-level validation. The due date must be strictly
// in the future at the time of the request.
func (req CreateBorrowRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.BookID,
			validation.Required.Error("Book reference is required"),
			is.UUID.Error("Book reference must be a valid UUID"),
		),
		validation.Field(&req.Quantity,
			validation.Required.Error("Quantity is required"),
			validation.Min(1).Error("Quantity must be at least 1"),
		),
		validation.Field(&req.DueDate,
			validation.Required.Error("Due date is required"),
			validation.By(futureDate),
		),
	)
}

func futureDate(value interface{}) error {
	date, _ := value.(time.Time)
	if !date.After(time.Now()) {
		return errDueDateNotFuture
	}
	return nil
}

// ToBorrow builds a new ledger entry from a validated request.
func (req CreateBorrowRequest) ToBorrow() *Borrow {
	now := time.Now()
	return &Borrow{
		ID:        uuid.New(),
		BookID:    uuid.MustParse(req.BookID),
		Quantity:  req.Quantity,
		DueDate:   req.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SummaryBook carries the catalog metadata joined into a summary entry.
type SummaryBook struct {
	Title string `json:"title"`
	ISBN  string `json:"isbn"`
}

// SummaryEntry is the lifetime borrowed total for one book.
type SummaryEntry struct {
	Book          SummaryBook `json:"book"`
	TotalQuantity int         `json:"total_quantity"`
}

// OverdueLoan is a ledger entry whose due date has passed, joined with the
// book title for reporting.
type OverdueLoan struct {
	BorrowID  uuid.UUID `json:"borrow_id"`
	BookID    uuid.UUID `json:"book_id"`
	BookTitle string    `json:"book_title"`
	Quantity  int       `json:"quantity"`
	DueDate   time.Time `json:"due_date"`
}
