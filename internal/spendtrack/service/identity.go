package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/spendtrack/spendtrack/internal/spendtrack/store"
	"github.com/spendtrack/spendtrack/pkg/httpx"
)

// IdentityService resolves a verified token subject into a principal with
// the current role set. Roles are deliberately read from the store on every
// request rather than trusted from the token, so revoking a role takes
// effect immediately.
type IdentityService struct {
	Store store.Store
}

var _ httpx.IdentityLoader = (*IdentityService)(nil)

func (s *IdentityService) LoadPrincipal(ctx context.Context, subject string) (httpx.Principal, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpx.Principal{}, httpx.ErrUnknownSubject
		}
		return httpx.Principal{}, fmt.Errorf("load principal: %w", err)
	}

	return httpx.Principal{
		Subject: user.Username,
		Roles:   user.Roles,
	}, nil
}
