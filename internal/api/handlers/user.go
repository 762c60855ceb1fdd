package handlers

import (
	"net/http"

	"github.com/baharkarakas/imagify-backend/internal/api/httpx"
	"github.com/baharkarakas/imagify-backend/internal/apperr"
	"github.com/baharkarakas/imagify-backend/internal/middleware"
	"github.com/baharkarakas/imagify-backend/internal/services"
)

type UserHandler struct {
	Users *services.UserService
}

func NewUserHandler(us *services.UserService) *UserHandler {
	return &UserHandler{Users: us}
}

// Credits reports the caller's balance and name.
func (h *UserHandler) Credits(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.Fail(w, r, apperr.ErrNoToken)
		return
	}
	u, err := h.Users.Get(r.Context(), uid)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{
		"credits": u.CreditBalance,
		"user":    map[string]string{"name": u.Name},
	})
}
