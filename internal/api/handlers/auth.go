// internal/api/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/baharkarakas/imagify-backend/internal/api/httpx"
	"github.com/baharkarakas/imagify-backend/internal/api/validate"
	"github.com/baharkarakas/imagify-backend/internal/apperr"
	"github.com/baharkarakas/imagify-backend/internal/services"
)

type AuthHandler struct {
	Users *services.UserService
}

func NewAuthHandler(us *services.UserService) *AuthHandler {
	return &AuthHandler{Users: us}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Fail(w, r, apperr.ErrMissingFields)
		return
	}
	if errs := validate.Collect(
		validate.Required("name", req.Name),
		validate.Required("email", req.Email),
		validate.Required("password", req.Password),
	); len(errs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, apperr.ErrMissingFields.Code, apperr.ErrMissingFields.Message, errs)
		return
	}
	if errs := validate.Collect(
		validate.Email("email", req.Email),
		validate.MaxLen("name", req.Name, 100),
		validate.MaxLen("password", req.Password, 72),
	); len(errs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_user", errs.Error(), errs)
		return
	}

	u, tok, err := h.Users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{"token": tok, "user": u.Public()})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Fail(w, r, apperr.ErrMissingFields)
		return
	}
	u, tok, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{"token": tok, "user": u.Public()})
}
