package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/baharkarakas/imagify-backend/internal/api/httpx"
	"github.com/baharkarakas/imagify-backend/internal/apperr"
	"github.com/baharkarakas/imagify-backend/internal/middleware"
	"github.com/baharkarakas/imagify-backend/internal/models"
	"github.com/baharkarakas/imagify-backend/internal/services"
)

type PaymentHandler struct {
	Payments *services.PaymentService
	Txns     *services.TransactionService
}

func NewPaymentHandler(ps *services.PaymentService, ts *services.TransactionService) *PaymentHandler {
	return &PaymentHandler{Payments: ps, Txns: ts}
}

type orderReq struct {
	PlanID string `json:"planId"`
}

type verifyReq struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Order opens a gateway order for the requested plan.
func (h *PaymentHandler) Order(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.Fail(w, r, apperr.ErrNoToken)
		return
	}
	var req orderReq
	if err := httpx.Decode(w, r, &req); err != nil || req.PlanID == "" {
		httpx.Fail(w, r, apperr.ErrMissingFields)
		return
	}

	order, _, err := h.Payments.CreateOrder(r.Context(), uid, req.PlanID)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{"order": order})
}

// Verify settles a checkout callback. A replay of an already settled payment
// is reported as success with alreadyProcessed set.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyReq
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Fail(w, r, apperr.ErrMissingFields)
		return
	}

	st, err := h.Payments.Verify(r.Context(), services.Callback{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if errors.Is(err, apperr.ErrAlreadyProcessed) {
		httpx.OK(w, map[string]any{
			"message":          apperr.ErrAlreadyProcessed.Message,
			"alreadyProcessed": true,
		})
		return
	}
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{
		"message":       "Credits Added",
		"creditBalance": st.Balance,
	})
}

// Transactions lists the caller's purchases, newest first.
func (h *PaymentHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.Fail(w, r, apperr.ErrNoToken)
		return
	}
	limit, offset := 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	txs, err := h.Txns.ListByUser(r.Context(), uid, limit, offset)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	httpx.OK(w, map[string]any{"transactions": txs})
}

func (h *PaymentHandler) Plans(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, map[string]any{"plans": models.Plans()})
}
