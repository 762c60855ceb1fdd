// Package apperr carries the error taxonomy shared by services and the HTTP boundary.
package apperr

import (
	"errors"
	"strconv"
)

type Kind string

const (
	KindAuth               Kind = "auth"
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindInsufficientCredit Kind = "insufficient_credit"
	KindPayment            Kind = "payment"
	KindUpstream           Kind = "upstream"
	KindInternal           Kind = "internal"
)

// Error is a classified failure. Two Errors match under errors.Is when their
// codes are equal, so wrapped copies still compare against the sentinels below.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	// auth
	ErrNoToken            = New(KindAuth, "no_token", "Not Authorized. Login Again")
	ErrInvalidToken       = New(KindAuth, "invalid_token", "Invalid Token, Please Login Again")
	ErrExpiredToken       = New(KindAuth, "expired_token", "Token Expired, Please Login Again")
	ErrMalformedToken     = New(KindAuth, "malformed_token", "Not Authorized. Login Again")
	ErrInvalidCredentials = New(KindAuth, "invalid_credentials", "Invalid credentials")

	// validation
	ErrMissingFields = New(KindValidation, "missing_fields", "Missing Details")
	ErrUnknownPlan   = New(KindValidation, "unknown_plan", "Plan not found")
	ErrInvalidAmount = New(KindValidation, "invalid_amount", "Amount must be greater than zero")
	ErrEmailTaken    = New(KindValidation, "email_taken", "User with this email already exists")

	// not found
	ErrUserNotFound        = New(KindNotFound, "user_not_found", "User not found")
	ErrTransactionNotFound = New(KindNotFound, "transaction_not_found", "Transaction record not found")

	// credit
	ErrInsufficientCredit = New(KindInsufficientCredit, "insufficient_credit", "No Credit Balance")

	// payment
	ErrSignatureMismatch = New(KindPayment, "signature_mismatch", "Payment verification failed")
	ErrOrderNotPaid      = New(KindPayment, "order_not_paid", "Payment Failed: Order not paid")
	ErrAlreadyProcessed  = New(KindPayment, "already_processed", "Payment already processed")
	ErrAlreadyPaid       = New(KindPayment, "already_paid", "Transaction already paid")

	// upstream
	ErrUpstream = New(KindUpstream, "upstream_error", "External service unavailable, try again later")

	ErrInternal = New(KindInternal, "internal_error", "Internal error")
)

// InsufficientCreditError reports the balance at the time of the failed check
// so callers can route the user to the purchase flow.
type InsufficientCreditError struct {
	Balance int64
}

func (e *InsufficientCreditError) Error() string {
	return ErrInsufficientCredit.Message + " (balance " + strconv.FormatInt(e.Balance, 10) + ")"
}

func (e *InsufficientCreditError) Is(target error) bool { return target == error(ErrInsufficientCredit) }

// KindOf classifies err; unknown errors are internal.
func KindOf(err error) Kind {
	var ice *InsufficientCreditError
	if errors.As(err, &ice) {
		return KindInsufficientCredit
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Benign reports idempotency outcomes that callers treat as no-ops.
func Benign(err error) bool {
	return errors.Is(err, ErrAlreadyProcessed) || errors.Is(err, ErrAlreadyPaid)
}
