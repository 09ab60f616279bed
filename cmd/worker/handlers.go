package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-api/internal/domains/borrow/service"
)

// TypeOverdueScan is the periodic task that reports loans past their due date.
const TypeOverdueScan = "borrow:overdue_scan"

type taskHandlers struct {
	borrows service.ServiceInterface
}

// HandleOverdueScan lists every loan past its due date and logs it.
// The ledger is append-only, so the scan is read-only reporting.
func (h *taskHandlers) HandleOverdueScan(ctx context.Context, _ *asynq.Task) error {
	now := time.Now()

	loans, err := h.borrows.ListOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("overdue scan failed: %w", err)
	}

	for _, loan := range loans {
		log.Warn().
			Str("borrow_id", loan.BorrowID.String()).
			Str("book_id", loan.BookID.String()).
			Str("book_title", loan.BookTitle).
			Int("quantity", loan.Quantity).
			Time("due_date", loan.DueDate).
			Msg("overdue loan")
	}

	log.Info().Int("overdue", len(loans)).Time("as_of", now).Msg("overdue scan completed")
	return nil
}
