package razorpay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSignature_RoundTrip(t *testing.T) {
	sig := Sign("order_1", "pay_1", "secret")
	if !VerifyPaymentSignature("order_1", "pay_1", sig, "secret") {
		t.Fatal("expected valid signature")
	}
	if VerifyPaymentSignature("order_1", "pay_1", sig, "other") {
		t.Error("wrong secret must not verify")
	}
	if VerifyPaymentSignature("order_1", "pay_1", "", "secret") {
		t.Error("empty signature must not verify")
	}
}

func TestSignature_SingleBitMutation(t *testing.T) {
	const orderID, paymentID, secret = "order_LxYz123", "pay_AbC987", "secret"
	sig := Sign(orderID, paymentID, secret)

	flip := func(s string, i, bit int) string {
		b := []byte(s)
		b[i] ^= 1 << bit
		return string(b)
	}
	for i := range orderID {
		for bit := 0; bit < 8; bit++ {
			if VerifyPaymentSignature(flip(orderID, i, bit), paymentID, sig, secret) {
				t.Fatalf("orderID mutation at byte %d bit %d verified", i, bit)
			}
		}
	}
	for i := range paymentID {
		for bit := 0; bit < 8; bit++ {
			if VerifyPaymentSignature(orderID, flip(paymentID, i, bit), sig, secret) {
				t.Fatalf("paymentID mutation at byte %d bit %d verified", i, bit)
			}
		}
	}
}

func TestClient_CreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			t.Errorf("bad basic auth %q/%q", user, pass)
		}
		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(Order{
			ID: "order_1", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created",
		})
	}))
	defer srv.Close()

	c := NewClient("key", "secret", srv.URL, time.Second)
	order, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 1000, Currency: "INR", Receipt: "tx-1"})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "order_1" || order.Amount != 1000 || order.Receipt != "tx-1" {
		t.Errorf("unexpected order %+v", order)
	}
}

func TestClient_FetchOrderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/order_1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR"}}`))
	}))
	defer srv.Close()

	_, err := NewClient("key", "secret", srv.URL, time.Second).FetchOrder(context.Background(), "order_1")
	var he *HTTPError
	if !errors.As(err, &he) || he.Status != http.StatusBadRequest {
		t.Fatalf("expected HTTPError 400, got %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewClient("key", "secret", srv.URL, 20*time.Millisecond).FetchOrder(context.Background(), "order_1")
	if err == nil {
		t.Fatal("expected timeout error")
	}
}
