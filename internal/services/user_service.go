package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/baharkarakas/imagify-backend/internal/apperr"
	"github.com/baharkarakas/imagify-backend/internal/auth"
	"github.com/baharkarakas/imagify-backend/internal/models"
	repo "github.com/baharkarakas/imagify-backend/internal/repository"
)

type UserService struct {
	r               repo.Users
	tm              *auth.TokenManager
	startingCredits int64
	log             *slog.Logger
}

func NewUserService(r repo.Users, tm *auth.TokenManager, startingCredits int64, log *slog.Logger) *UserService {
	return &UserService{r: r, tm: tm, startingCredits: startingCredits, log: log}
}

// Register creates the account with the starting balance and returns a token.
func (s *UserService) Register(ctx context.Context, name, email, password string) (models.User, string, error) {
	u := models.User{Name: name, Email: email, CreditBalance: s.startingCredits}
	u.Normalize()
	if u.Name == "" || u.Email == "" || password == "" {
		return models.User{}, "", apperr.ErrMissingFields
	}
	if err := u.Validate(); err != nil {
		return models.User{}, "", apperr.New(apperr.KindValidation, "invalid_user", err.Error())
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, "", apperr.ErrInternal.Wrap(err)
	}
	u.PasswordHash = hash

	u, err = s.r.Create(ctx, u)
	if errors.Is(err, repo.ErrConflict) {
		return models.User{}, "", apperr.ErrEmailTaken
	}
	if err != nil {
		return models.User{}, "", apperr.ErrInternal.Wrap(err)
	}

	tok, err := s.tm.Issue(u.ID)
	if err != nil {
		return models.User{}, "", apperr.ErrInternal.Wrap(err)
	}
	s.log.Info("user registered", "user_id", u.ID)
	return u, tok, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, "", apperr.ErrMissingFields
	}
	u, err := s.r.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, "", apperr.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", apperr.ErrInternal.Wrap(err)
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return models.User{}, "", apperr.ErrInvalidCredentials
	}

	tok, err := s.tm.Issue(u.ID)
	if err != nil {
		return models.User{}, "", apperr.ErrInternal.Wrap(err)
	}
	return u, tok, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	u, err := s.r.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, apperr.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, apperr.ErrInternal.Wrap(err)
	}
	return u, nil
}
