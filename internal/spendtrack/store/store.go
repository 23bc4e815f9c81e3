package store

import (
	"context"
	"errors"

	"github.com/spendtrack/spendtrack/internal/spendtrack/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable.
type Store interface {
	Users() Users
	Expenses() Expenses

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used at login and on every authenticated request
	// to re-resolve the current role set.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// The username column is UNIQUE; a duplicate insert returns
	// ErrAlreadyExists even under concurrent signups.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns all users ordered by creation date (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Expenses interface {
	// GetExpense returns an expense only if it belongs to the user.
	GetExpense(ctx context.Context, id, userID string) (domain.Expense, error)

	// ListExpenses returns all of a user's expenses, newest date first.
	ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error)

	// ListExpensesByDay returns a user's expenses for one calendar day.
	ListExpensesByDay(ctx context.Context, userID, date string) ([]domain.Expense, error)

	// ListExpensesByCategoryAndMonth filters by category (case-insensitive)
	// within a month prefix (2006-01).
	ListExpensesByCategoryAndMonth(ctx context.Context, userID, category, month string) ([]domain.Expense, error)

	// ListCategories returns the user's distinct category names.
	ListCategories(ctx context.Context, userID string) ([]string, error)

	// CreateExpense inserts a new expense.
	CreateExpense(ctx context.Context, e domain.Expense) error

	// UpdateExpense mutates an existing expense owned by the user and bumps
	// updated_at. Returns ErrNotFound if no such row.
	UpdateExpense(ctx context.Context, e domain.Expense) error

	// DeleteExpense removes an expense owned by the user.
	// Returns ErrNotFound if no such row.
	DeleteExpense(ctx context.Context, id, userID string) error
}
