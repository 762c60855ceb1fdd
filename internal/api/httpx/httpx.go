package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/imagify-backend/internal/apperr"
)

// APIError is the failure body. Every response carries "success".
type APIError struct {
	Success       bool        `json:"success"`
	Message       string      `json:"message"`
	Code          string      `json:"code"`
	CreditBalance *int64      `json:"creditBalance,omitempty"`
	Details       interface{} `json:"details,omitempty"`
}

const maxBody = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes {success:true, ...fields}.
func OK(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	WriteJSON(w, http.StatusOK, body)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Message: msg,
		Code:    code,
		Details: details,
	})
}

// Fail renders err through the apperr taxonomy. Unclassified errors are
// logged and answered with a generic message.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	body := APIError{Code: apperr.ErrInternal.Code, Message: apperr.ErrInternal.Message}

	var ice *apperr.InsufficientCreditError
	var ae *apperr.Error
	switch {
	case errors.As(err, &ice):
		bal := ice.Balance
		body.Code = apperr.ErrInsufficientCredit.Code
		body.Message = apperr.ErrInsufficientCredit.Message
		body.CreditBalance = &bal
	case errors.As(err, &ae) && ae.Kind != apperr.KindInternal:
		body.Code = ae.Code
		body.Message = ae.Message
	}

	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal || kind == apperr.KindUpstream {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "code", body.Code, "err", err)
	}
	WriteJSON(w, Status(kind), body)
}

func Status(k apperr.Kind) int {
	switch k {
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindValidation, apperr.KindPayment:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInsufficientCredit:
		return http.StatusPaymentRequired
	case apperr.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON body into v. Unknown fields are ignored.
func Decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	return json.NewDecoder(r.Body).Decode(v)
}
