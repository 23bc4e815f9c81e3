package service

import (
	"context"

	"github.com/spendtrack/spendtrack/internal/spendtrack/domain"
	"github.com/spendtrack/spendtrack/internal/spendtrack/store"
)

// AdminService backs the administrative surface.
type AdminService struct {
	Store store.Store
}

// ListUsers returns all users. Password hashes are blanked before the
// records leave this layer.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}
