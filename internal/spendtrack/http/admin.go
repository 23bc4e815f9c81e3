package http

import (
	"net/http"
	"time"

	"github.com/spendtrack/spendtrack/internal/spendtrack/service"
	"github.com/spendtrack/spendtrack/pkg/httpx"
	"github.com/spendtrack/spendtrack/pkg/slogx"
)

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

type AdminUsersHandler struct {
	AdminService *service.AdminService
}

func (h *AdminUsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.AdminService.ListUsers(ctx)
	if err != nil {
		log.Error("failed to list users", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to list users",
		})
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{
			ID:        u.ID,
			Username:  u.Username,
			Roles:     u.Roles,
			CreatedAt: u.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
