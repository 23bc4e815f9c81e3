package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spendtrack/spendtrack/internal/spendtrack/domain"
	"github.com/spendtrack/spendtrack/internal/spendtrack/store"
	"github.com/spendtrack/spendtrack/pkg/idx"
)

func seedUser(t *testing.T, st store.Store, username string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "hash",
		Roles:        domain.DefaultRoles(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

func TestAddAndGetExpense(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := seedUser(t, st, "alice")
	svc := &ExpenseService{Store: st}

	created, err := svc.AddExpense(ctx, user.ID, domain.Expense{
		Description: "weekly groceries",
		Category:    "groceries",
		AmountCents: 4250,
		Date:        "2026-08-28",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, user.ID, created.UserID)

	got, err := svc.GetExpense(ctx, created.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, "groceries", got.Category)
	require.Equal(t, int64(4250), got.AmountCents)
}

func TestAddExpenseValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := seedUser(t, st, "alice")
	svc := &ExpenseService{Store: st}

	t.Run("rejects missing category", func(t *testing.T) {
		_, err := svc.AddExpense(ctx, user.ID, domain.Expense{
			AmountCents: 100,
			Date:        "2026-08-28",
		})
		require.ErrorIs(t, err, ErrInvalidExpense)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := svc.AddExpense(ctx, user.ID, domain.Expense{
			Category:    "misc",
			AmountCents: 0,
			Date:        "2026-08-28",
		})
		require.ErrorIs(t, err, ErrInvalidExpense)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		_, err := svc.AddExpense(ctx, user.ID, domain.Expense{
			Category:    "misc",
			AmountCents: 100,
			Date:        "28/08/2026",
		})
		require.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestListExpensesFilters(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := seedUser(t, st, "alice")
	svc := &ExpenseService{Store: st}

	seed := []domain.Expense{
		{Category: "groceries", AmountCents: 4250, Date: "2026-08-28"},
		{Category: "groceries", AmountCents: 1200, Date: "2026-07-03"},
		{Category: "transport", AmountCents: 350, Date: "2026-08-28"},
	}
	for _, e := range seed {
		_, err := svc.AddExpense(ctx, user.ID, e)
		require.NoError(t, err)
	}

	t.Run("lists everything for the owner", func(t *testing.T) {
		all, err := svc.ListExpenses(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, all, 3)
	})

	t.Run("filters by day", func(t *testing.T) {
		day, err := svc.ListExpensesByDay(ctx, user.ID, "2026-08-28")
		require.NoError(t, err)
		require.Len(t, day, 2)

		_, err = svc.ListExpensesByDay(ctx, user.ID, "not-a-date")
		require.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("filters by category and month", func(t *testing.T) {
		month, err := svc.ListExpensesByCategoryAndMonth(ctx, user.ID, "groceries", "2026-08")
		require.NoError(t, err)
		require.Len(t, month, 1)
		require.Equal(t, int64(4250), month[0].AmountCents)

		_, err = svc.ListExpensesByCategoryAndMonth(ctx, user.ID, "groceries", "august")
		require.ErrorIs(t, err, ErrInvalidMonth)
	})

	t.Run("lists distinct categories", func(t *testing.T) {
		categories, err := svc.ListCategories(ctx, user.ID)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"groceries", "transport"}, categories)
	})
}

func TestExpensesAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")
	svc := &ExpenseService{Store: st}

	created, err := svc.AddExpense(ctx, alice.ID, domain.Expense{
		Category:    "groceries",
		AmountCents: 4250,
		Date:        "2026-08-28",
	})
	require.NoError(t, err)

	_, err = svc.GetExpense(ctx, created.ID, bob.ID)
	require.ErrorIs(t, err, ErrExpenseNotFound)

	err = svc.DeleteExpense(ctx, created.ID, bob.ID)
	require.ErrorIs(t, err, ErrExpenseNotFound)

	list, err := svc.ListExpenses(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := seedUser(t, st, "alice")
	svc := &ExpenseService{Store: st}

	created, err := svc.AddExpense(ctx, user.ID, domain.Expense{
		Category:    "groceries",
		AmountCents: 4250,
		Date:        "2026-08-28",
	})
	require.NoError(t, err)

	created.AmountCents = 5000
	created.Description = "corrected receipt"
	updated, err := svc.UpdateExpense(ctx, user.ID, created)
	require.NoError(t, err)
	require.Equal(t, int64(5000), updated.AmountCents)
	require.Equal(t, "corrected receipt", updated.Description)

	require.NoError(t, svc.DeleteExpense(ctx, created.ID, user.ID))

	_, err = svc.GetExpense(ctx, created.ID, user.ID)
	require.ErrorIs(t, err, ErrExpenseNotFound)

	err = svc.DeleteExpense(ctx, created.ID, user.ID)
	require.ErrorIs(t, err, ErrExpenseNotFound)
}
