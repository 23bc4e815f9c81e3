package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/spendtrack/spendtrack/internal/spendtrack/domain"
	"github.com/spendtrack/spendtrack/internal/spendtrack/store"
)

var ErrUserNotFound = errors.New("service: user not found")

// UserService resolves account records for authenticated requests.
type UserService struct {
	Store store.Store
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}
