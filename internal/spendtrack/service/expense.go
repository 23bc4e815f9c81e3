package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spendtrack/spendtrack/internal/spendtrack/domain"
	"github.com/spendtrack/spendtrack/internal/spendtrack/store"
	"github.com/spendtrack/spendtrack/pkg/idx"
	"github.com/spendtrack/spendtrack/pkg/slogx"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidExpense  = errors.New("invalid expense")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMonth    = errors.New("invalid month, expected YYYY-MM")
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// ExpenseService owns the expense records of individual users. Every
// operation is scoped by the owner's user ID; there is no cross-user read
// or write path.
type ExpenseService struct {
	Store store.Store
}

func (s *ExpenseService) ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error) {
	return s.Store.Expenses().ListExpenses(ctx, userID)
}

func (s *ExpenseService) ListExpensesByDay(ctx context.Context, userID, date string) ([]domain.Expense, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}
	return s.Store.Expenses().ListExpensesByDay(ctx, userID, date)
}

func (s *ExpenseService) ListExpensesByCategoryAndMonth(ctx context.Context, userID, category, month string) ([]domain.Expense, error) {
	if _, err := time.Parse(monthLayout, month); err != nil {
		return nil, ErrInvalidMonth
	}
	if strings.TrimSpace(category) == "" {
		return nil, ErrInvalidExpense
	}
	return s.Store.Expenses().ListExpensesByCategoryAndMonth(ctx, userID, category, month)
}

func (s *ExpenseService) ListCategories(ctx context.Context, userID string) ([]string, error) {
	return s.Store.Expenses().ListCategories(ctx, userID)
}

func (s *ExpenseService) GetExpense(ctx context.Context, id, userID string) (domain.Expense, error) {
	e, err := s.Store.Expenses().GetExpense(ctx, id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Expense{}, ErrExpenseNotFound
		}
		return domain.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// AddExpense validates and persists a new expense owned by userID.
func (s *ExpenseService) AddExpense(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error) {
	log := slogx.FromContext(ctx)

	if err := validateExpense(e); err != nil {
		return domain.Expense{}, err
	}

	e.ID = idx.New().String()
	e.UserID = userID

	if err := s.Store.Expenses().CreateExpense(ctx, e); err != nil {
		log.Error("failed to create expense", "err", err)
		return domain.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	return e, nil
}

// UpdateExpense overwrites an existing expense. Ownership is enforced at
// the store level: a mismatched user ID behaves like a missing record.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error) {
	if err := validateExpense(e); err != nil {
		return domain.Expense{}, err
	}

	e.UserID = userID
	if err := s.Store.Expenses().UpdateExpense(ctx, e); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Expense{}, ErrExpenseNotFound
		}
		return domain.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return e, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id, userID string) error {
	if err := s.Store.Expenses().DeleteExpense(ctx, id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func validateExpense(e domain.Expense) error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrInvalidExpense
	}
	if e.AmountCents <= 0 {
		return ErrInvalidExpense
	}
	if _, err := time.Parse(dateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
