package domain

import "time"

// Expense is a single spend record owned by one user. Date is stored as an
// ISO calendar day (2006-01-02) so month filtering is a plain prefix match.
type Expense struct {
	ID          string
	UserID      string
	Description string
	Category    string
	AmountCents int64
	Date        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
