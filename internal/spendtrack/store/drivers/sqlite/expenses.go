package sqlite

import (
	"context"
	"time"

	"github.com/spendtrack/spendtrack/internal/spendtrack/domain"
	"github.com/spendtrack/spendtrack/internal/spendtrack/store"
)

type expensesRepo struct {
	db dbtx
}

const expenseColumns = `id, user_id, description, category, amount_cents, date, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }) (domain.Expense, error) {
	var e domain.Expense
	err := row.Scan(
		&e.ID, &e.UserID, &e.Description, &e.Category,
		&e.AmountCents, &e.Date, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *expensesRepo) collect(ctx context.Context, query string, args ...any) ([]domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *expensesRepo) GetExpense(ctx context.Context, id, userID string) (domain.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ? AND user_id = ?`,
		id, userID)

	e, err := scanExpense(row)
	if err != nil {
		return domain.Expense{}, mapNotFound(err)
	}
	return e, nil
}

func (r *expensesRepo) ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error) {
	return r.collect(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE user_id = ? ORDER BY date DESC, id DESC`,
		userID)
}

func (r *expensesRepo) ListExpensesByDay(ctx context.Context, userID, date string) ([]domain.Expense, error) {
	return r.collect(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE user_id = ? AND date = ? ORDER BY id DESC`,
		userID, date)
}

func (r *expensesRepo) ListExpensesByCategoryAndMonth(ctx context.Context, userID, category, month string) ([]domain.Expense, error) {
	return r.collect(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE user_id = ? AND category = ? COLLATE NOCASE AND date LIKE ? || '%'
		 ORDER BY date DESC, id DESC`,
		userID, category, month)
}

func (r *expensesRepo) ListCategories(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM expenses WHERE user_id = ? ORDER BY category`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *expensesRepo) CreateExpense(ctx context.Context, e domain.Expense) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, description, category, amount_cents, date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Description, e.Category, e.AmountCents, e.Date, now, now,
	)
	return mapConstraint(err)
}

func (r *expensesRepo) UpdateExpense(ctx context.Context, e domain.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET description = ?, category = ?, amount_cents = ?, date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		e.Description, e.Category, e.AmountCents, e.Date, time.Now().UTC(), e.ID, e.UserID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *expensesRepo) DeleteExpense(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func requireRowAffected(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
