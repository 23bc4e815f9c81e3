package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendtrack/spendtrack/internal/spendtrack/domain"
	"github.com/spendtrack/spendtrack/internal/spendtrack/store"
	"github.com/spendtrack/spendtrack/pkg/idx"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newUser(username string) domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "hash",
		Roles:        []string{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsersRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStore(t)

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	user := newUser("alice")
	user.Roles = []string{domain.RoleUser, domain.RoleAdmin}
	require.NoError(t, st.Users().CreateUser(ctx, user))

	got, err := st.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, []string{domain.RoleUser, domain.RoleAdmin}, got.Roles)

	byID, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)

	_, err = st.Users().GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStore(t)

	require.NoError(t, st.Users().CreateUser(ctx, newUser("alice")))

	err := st.Users().CreateUser(ctx, newUser("alice"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStore(t)

	sentinel := assert.AnError
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, newUser("alice")); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = st.Users().GetUserByUsername(ctx, "alice")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStore(t)

	err := st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, newUser("alice"))
	})
	require.NoError(t, err)

	_, err = st.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
}

func TestDeleteUserCascadesExpenses(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStore(t)

	user := newUser("alice")
	require.NoError(t, st.Users().CreateUser(ctx, user))

	now := time.Now().UTC()
	require.NoError(t, st.Expenses().CreateExpense(ctx, domain.Expense{
		ID:          idx.New().String(),
		UserID:      user.ID,
		Category:    "groceries",
		AmountCents: 4250,
		Date:        "2026-08-28",
		CreatedAt:   now,
		UpdatedAt:   now,
	}))

	_, err := st.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, user.ID)
	require.NoError(t, err)

	expenses, err := st.Expenses().ListExpenses(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, expenses)
}

func TestListExpensesOrdersByDateDescending(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStore(t)

	user := newUser("alice")
	require.NoError(t, st.Users().CreateUser(ctx, user))

	for _, date := range []string{"2026-07-01", "2026-08-28", "2026-08-02"} {
		require.NoError(t, st.Expenses().CreateExpense(ctx, domain.Expense{
			ID:          idx.New().String(),
			UserID:      user.ID,
			Category:    "misc",
			AmountCents: 100,
			Date:        date,
		}))
	}

	expenses, err := st.Expenses().ListExpenses(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	require.Equal(t, "2026-08-28", expenses[0].Date)
	require.Equal(t, "2026-08-02", expenses[1].Date)
	require.Equal(t, "2026-07-01", expenses[2].Date)
}
