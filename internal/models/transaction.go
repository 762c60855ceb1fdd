package models

import "time"

// Transaction is a credit purchase attempt. It stays pending until a verified
// payment callback marks it paid.
type Transaction struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Plan       string    `json:"plan"`
	Amount     int64     `json:"amount"`
	Credits    int64     `json:"credits"`
	Paid       bool      `json:"payment"`
	PaymentRef *string   `json:"paymentRef,omitempty"`
	CreatedAt  time.Time `json:"date"`
}
