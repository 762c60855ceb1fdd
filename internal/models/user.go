package models

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	CreditBalance int64     `json:"creditBalance"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Normalize trims the identity fields and folds the email to lower case.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

func (u *User) Validate() error {
	if u.Name == "" {
		return errors.New("name required")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email")
	}
	if u.CreditBalance < 0 {
		return errors.New("credit balance must be >= 0")
	}
	return nil
}

// Public is the user view returned to clients.
type Public struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	CreditBalance int64  `json:"creditBalance"`
}

func (u User) Public() Public {
	return Public{Name: u.Name, Email: u.Email, CreditBalance: u.CreditBalance}
}
