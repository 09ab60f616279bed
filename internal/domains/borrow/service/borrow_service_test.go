package service_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookModel "library-api/internal/domains/book/model"
	"library-api/internal/domains/borrow/model"
	"library-api/internal/domains/borrow/service"
)

type stockRecord struct {
	title     string
	isbn      string
	copies    int
	available bool
}

// fakeBorrowRepo reproduces the repository's transactional contract in
// memory: the stock check and decrement happen under one lock, so
// concurrent borrows can never oversell.
type fakeBorrowRepo struct {
	mu      sync.Mutex
	books   map[uuid.UUID]*stockRecord
	entries []model.Borrow
}

func newFakeBorrowRepo() *fakeBorrowRepo {
	return &fakeBorrowRepo{books: make(map[uuid.UUID]*stockRecord)}
}

func (f *fakeBorrowRepo) addBook(title, isbn string, copies int) uuid.UUID {
	id := uuid.New()
	f.books[id] = &stockRecord{title: title, isbn: isbn, copies: copies, available: copies > 0}
	return id
}

func (f *fakeBorrowRepo) CreateBorrow(_ context.Context, borrow *model.Borrow) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	book, ok := f.books[borrow.BookID]
	if !ok {
		return bookModel.ErrBookNotFound
	}
	if book.copies < borrow.Quantity {
		return model.ErrInsufficientStock
	}

	book.copies -= borrow.Quantity
	book.available = book.copies > 0
	f.entries = append(f.entries, *borrow)
	return nil
}

func (f *fakeBorrowRepo) Summary(context.Context) ([]model.SummaryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	totals := make(map[uuid.UUID]int)
	for _, entry := range f.entries {
		totals[entry.BookID] += entry.Quantity
	}

	summary := make([]model.SummaryEntry, 0, len(totals))
	for bookID, total := range totals {
		book := f.books[bookID]
		summary = append(summary, model.SummaryEntry{
			Book:          model.SummaryBook{Title: book.title, ISBN: book.isbn},
			TotalQuantity: total,
		})
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].TotalQuantity > summary[j].TotalQuantity
	})
	return summary, nil
}

func (f *fakeBorrowRepo) ListOverdue(_ context.Context, asOf time.Time) ([]model.OverdueLoan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	overdue := make([]model.OverdueLoan, 0)
	for _, entry := range f.entries {
		if entry.DueDate.Before(asOf) {
			overdue = append(overdue, model.OverdueLoan{
				BorrowID:  entry.ID,
				BookID:    entry.BookID,
				BookTitle: f.books[entry.BookID].title,
				Quantity:  entry.Quantity,
				DueDate:   entry.DueDate,
			})
		}
	}
	return overdue, nil
}

type fakeCache struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (f *fakeCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, keys...)
	return nil
}
func (f *fakeCache) DeletePattern(context.Context, string) error { return nil }
func (f *fakeCache) Ping(context.Context) error                  { return nil }

func newService() (service.ServiceInterface, *fakeBorrowRepo, *fakeCache) {
	repo := newFakeBorrowRepo()
	cache := &fakeCache{}
	return service.NewService(repo, cache), repo, cache
}

func borrowRequest(bookID uuid.UUID, quantity int) model.CreateBorrowRequest {
	return model.CreateBorrowRequest{
		BookID:   bookID.String(),
		Quantity: quantity,
		DueDate:  time.Now().Add(48 * time.Hour),
	}
}

func Test_Borrow_DecrementsStockAndAppendsEntry(t *testing.T) {
	svc, repo, _ := newService()
	bookID := repo.addBook("Dune", "978-0-441-17271-9", 3)

	borrow, err := svc.Borrow(context.Background(), borrowRequest(bookID, 2))

	require.NoError(t, err)
	assert.Equal(t, bookID, borrow.BookID)
	assert.Equal(t, 2, borrow.Quantity)
	assert.Equal(t, 1, repo.books[bookID].copies)
	assert.True(t, repo.books[bookID].available)
	assert.Len(t, repo.entries, 1)
}

func Test_Borrow_UnknownBook(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.Borrow(context.Background(), borrowRequest(uuid.New(), 1))

	assert.ErrorIs(t, err, bookModel.ErrBookNotFound)
	assert.Empty(t, repo.entries)
}

func Test_Borrow_InsufficientStockLeavesStateUnchanged(t *testing.T) {
	svc, repo, _ := newService()
	bookID := repo.addBook("Dune", "978-0-441-17271-9", 3)

	_, err := svc.Borrow(context.Background(), borrowRequest(bookID, 4))

	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Equal(t, 3, repo.books[bookID].copies)
	assert.True(t, repo.books[bookID].available)
	assert.Empty(t, repo.entries)
}

func Test_Borrow_PastDueDateNeverReachesRepository(t *testing.T) {
	svc, repo, _ := newService()
	bookID := repo.addBook("Dune", "978-0-441-17271-9", 3)

	req := borrowRequest(bookID, 1)
	req.DueDate = time.Now().Add(-time.Hour)

	_, err := svc.Borrow(context.Background(), req)

	var fieldErrs validation.Errors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "due_date")
	assert.Equal(t, 3, repo.books[bookID].copies)
	assert.Empty(t, repo.entries)
}

func Test_Borrow_DrainsStockToZero(t *testing.T) {
	svc, repo, _ := newService()
	bookID := repo.addBook("Dune", "978-0-441-17271-9", 3)

	_, err := svc.Borrow(context.Background(), borrowRequest(bookID, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.books[bookID].copies)
	assert.True(t, repo.books[bookID].available)

	_, err = svc.Borrow(context.Background(), borrowRequest(bookID, 2))
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	_, err = svc.Borrow(context.Background(), borrowRequest(bookID, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, repo.books[bookID].copies)
	assert.False(t, repo.books[bookID].available)
}

func Test_Borrow_ConcurrentRequestsNeverOversell(t *testing.T) {
	svc, repo, _ := newService()
	const copies = 5
	const requests = 12
	bookID := repo.addBook("Dune", "978-0-441-17271-9", copies)

	results := make(chan error, requests)
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Borrow(context.Background(), borrowRequest(bookID, 1))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, model.ErrInsufficientStock)
		}
	}

	assert.Equal(t, copies, succeeded)
	assert.Equal(t, 0, repo.books[bookID].copies)
	assert.False(t, repo.books[bookID].available)
	assert.Len(t, repo.entries, copies)
}

func Test_Borrow_InvalidatesBookDetailCache(t *testing.T) {
	svc, repo, cache := newService()
	bookID := repo.addBook("Dune", "978-0-441-17271-9", 3)

	_, err := svc.Borrow(context.Background(), borrowRequest(bookID, 1))

	require.NoError(t, err)
	assert.Contains(t, cache.deleted, bookModel.BookDetailCacheKey(bookID.String()))
}

func Test_Summary_AggregatesPerBook(t *testing.T) {
	svc, repo, _ := newService()
	dune := repo.addBook("Dune", "978-0-441-17271-9", 10)
	hobbit := repo.addBook("The Hobbit", "978-0-618-00221-4", 10)

	for _, req := range []model.CreateBorrowRequest{
		borrowRequest(dune, 2),
		borrowRequest(dune, 3),
		borrowRequest(hobbit, 1),
	} {
		_, err := svc.Borrow(context.Background(), req)
		require.NoError(t, err)
	}

	summary, err := svc.Summary(context.Background())

	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, model.SummaryBook{Title: "Dune", ISBN: "978-0-441-17271-9"}, summary[0].Book)
	assert.Equal(t, 5, summary[0].TotalQuantity)
	assert.Equal(t, "The Hobbit", summary[1].Book.Title)
	assert.Equal(t, 1, summary[1].TotalQuantity)
}

func Test_ListOverdue_ReturnsOnlyPastDue(t *testing.T) {
	svc, repo, _ := newService()
	bookID := repo.addBook("Dune", "978-0-441-17271-9", 10)

	_, err := svc.Borrow(context.Background(), borrowRequest(bookID, 1))
	require.NoError(t, err)

	soon := borrowRequest(bookID, 1)
	soon.DueDate = time.Now().Add(time.Minute)
	borrowed, err := svc.Borrow(context.Background(), soon)
	require.NoError(t, err)

	overdue, err := svc.ListOverdue(context.Background(), time.Now().Add(2*time.Minute))

	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, borrowed.ID, overdue[0].BorrowID)
	assert.Equal(t, "Dune", overdue[0].BookTitle)
}
