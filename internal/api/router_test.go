package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baharkarakas/imagify-backend/internal/auth"
	"github.com/baharkarakas/imagify-backend/internal/config"
	"github.com/baharkarakas/imagify-backend/internal/imagegen"
	"github.com/baharkarakas/imagify-backend/internal/logger"
	"github.com/baharkarakas/imagify-backend/internal/razorpay"
	"github.com/baharkarakas/imagify-backend/internal/repository/sqlite"
	"github.com/baharkarakas/imagify-backend/internal/services"
	"github.com/baharkarakas/imagify-backend/internal/worker"
)

const keySecret = "rzp_secret"

// fakeRazorpay serves the two Orders API calls the backend makes.
type fakeRazorpay struct {
	mu     sync.Mutex
	seq    int
	orders map[string]razorpay.Order
}

func (f *fakeRazorpay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/orders":
		var req razorpay.OrderRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.seq++
		o := razorpay.Order{ID: fmt.Sprintf("order_%d", f.seq), Entity: "order", Amount: req.Amount,
			AmountDue: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"}
		f.orders[o.ID] = o
		_ = json.NewEncoder(w).Encode(o)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/orders/"):
		o, ok := f.orders[strings.TrimPrefix(r.URL.Path, "/orders/")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(o)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeRazorpay) pay(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[id]
	o.Status = razorpay.StatusPaid
	o.AmountPaid, o.AmountDue = o.Amount, 0
	f.orders[id] = o
}

type testServer struct {
	*httptest.Server
	rzp      *fakeRazorpay
	clipFail bool
	mu       sync.Mutex
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{rzp: &fakeRazorpay{orders: map[string]razorpay.Order{}}}

	rzpSrv := httptest.NewServer(ts.rzp)
	t.Cleanup(rzpSrv.Close)
	clipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		fail := ts.clipFail
		ts.mu.Unlock()
		if fail || r.Header.Get("x-api-key") != "clip-key" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("PNG:" + r.FormValue("prompt")))
	}))
	t.Cleanup(clipSrv.Close)

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(store.Close)

	cfg := config.Default()
	cfg.RateRPS = 0
	log := logger.Discard()
	wp := worker.NewPool(1, 64)
	t.Cleanup(wp.Stop)

	tm := auth.NewTokenManager("jwt-secret", time.Hour)
	audit := services.NewAuditor(store.Repos().AuditLogs, wp, log)
	ledger := services.NewLedgerService(store, audit, log)
	txns := services.NewTransactionService(store, log)
	gw := razorpay.NewClient("rzp_key", keySecret, rzpSrv.URL, time.Second)
	payments := services.NewPaymentService(store, ledger, txns, gw,
		services.PaymentConfig{KeySecret: keySecret, Currency: "INR"}, audit, log)
	images := services.NewImageService(ledger, imagegen.NewClipDrop("clip-key", clipSrv.URL, time.Second), log)
	users := services.NewUserService(store.Repos().Users, tm, cfg.StartingCredits, log)

	ts.Server = httptest.NewServer(NewRouter(RouterDeps{
		Cfg: cfg, Log: log, Store: store, TM: tm,
		Users: users, Images: images, Payments: payments, Txns: txns,
	}))
	t.Cleanup(ts.Server.Close)
	return ts
}

func (ts *testServer) call(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, ts.URL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return res.StatusCode, out
}

func (ts *testServer) register(t *testing.T, email string) string {
	t.Helper()
	code, body := ts.call(t, http.MethodPost, "/api/user/register", "", map[string]string{
		"name": "Ada", "email": email, "password": "pw123456",
	})
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("register: %d %v", code, body)
	}
	return body["token"].(string)
}

func (ts *testServer) credits(t *testing.T, token string) float64 {
	t.Helper()
	code, body := ts.call(t, http.MethodGet, "/api/user/credits", token, nil)
	if code != http.StatusOK {
		t.Fatalf("credits: %d %v", code, body)
	}
	return body["credits"].(float64)
}

func TestRegisterLoginCredits(t *testing.T) {
	ts := setupServer(t)
	tok := ts.register(t, "a@x.com")

	if got := ts.credits(t, tok); got != 5 {
		t.Errorf("starting credits %v, want 5", got)
	}

	code, body := ts.call(t, http.MethodPost, "/api/user/register", "", map[string]string{
		"name": "Other", "email": "A@X.com", "password": "pw",
	})
	if code != http.StatusBadRequest || body["success"] != false {
		t.Errorf("duplicate email: %d %v", code, body)
	}

	code, body = ts.call(t, http.MethodPost, "/api/user/login", "", map[string]string{
		"email": "a@x.com", "password": "pw123456",
	})
	if code != http.StatusOK || body["token"] == "" {
		t.Fatalf("login: %d %v", code, body)
	}
	user := body["user"].(map[string]any)
	if user["name"] != "Ada" {
		t.Errorf("login user %v", user)
	}

	code, _ = ts.call(t, http.MethodPost, "/api/user/login", "", map[string]string{
		"email": "a@x.com", "password": "nope",
	})
	if code != http.StatusUnauthorized {
		t.Errorf("bad password: %d", code)
	}
}

func TestCredits_RequiresToken(t *testing.T) {
	ts := setupServer(t)
	code, body := ts.call(t, http.MethodGet, "/api/user/credits", "", nil)
	if code != http.StatusUnauthorized || body["success"] != false || body["reason"] != "no-token" {
		t.Errorf("expected no-token rejection, got %d %v", code, body)
	}
}

func TestGenerateImage(t *testing.T) {
	ts := setupServer(t)
	tok := ts.register(t, "a@x.com")

	code, body := ts.call(t, http.MethodPost, "/api/image/generate-image", tok, map[string]string{"prompt": "a cat"})
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("generate: %d %v", code, body)
	}
	img, _ := body["resultImage"].(string)
	if !strings.HasPrefix(img, "data:image/png;base64,") {
		t.Errorf("unexpected resultImage %q", img)
	}
	if body["creditBalance"] != float64(4) {
		t.Errorf("creditBalance %v, want 4", body["creditBalance"])
	}

	ts.mu.Lock()
	ts.clipFail = true
	ts.mu.Unlock()
	code, body = ts.call(t, http.MethodPost, "/api/image/generate-image", tok, map[string]string{"prompt": "a dog"})
	if code != http.StatusBadGateway || body["success"] != false {
		t.Errorf("upstream failure: %d %v", code, body)
	}
	if got := ts.credits(t, tok); got != 4 {
		t.Errorf("failed generation charged a credit, balance %v", got)
	}
}

func TestGenerateImage_ZeroBalance(t *testing.T) {
	ts := setupServer(t)
	tok := ts.register(t, "a@x.com")
	for i := 0; i < 5; i++ {
		if code, body := ts.call(t, http.MethodPost, "/api/image/generate-image", tok, map[string]string{"prompt": "p"}); code != http.StatusOK {
			t.Fatalf("generate %d: %d %v", i, code, body)
		}
	}

	code, body := ts.call(t, http.MethodPost, "/api/image/generate-image", tok, map[string]string{"prompt": "p"})
	if code != http.StatusPaymentRequired || body["success"] != false || body["creditBalance"] != float64(0) {
		t.Errorf("expected no credit response, got %d %v", code, body)
	}
	if got := ts.credits(t, tok); got != 0 {
		t.Errorf("balance %v, want 0", got)
	}
}

func TestPurchaseAndReplay(t *testing.T) {
	ts := setupServer(t)
	tok := ts.register(t, "a@x.com")

	code, body := ts.call(t, http.MethodPost, "/api/payment/razorpay", tok, map[string]string{"planId": "Basic"})
	if code != http.StatusOK {
		t.Fatalf("order: %d %v", code, body)
	}
	order := body["order"].(map[string]any)
	orderID := order["id"].(string)
	if order["amount"] != float64(1000) {
		t.Errorf("order amount %v, want 1000", order["amount"])
	}

	ts.rzp.pay(orderID)
	cb := map[string]string{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  razorpay.Sign(orderID, "pay_1", keySecret),
	}
	code, body = ts.call(t, http.MethodPost, "/api/payment/verify", tok, cb)
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("verify: %d %v", code, body)
	}
	if got := ts.credits(t, tok); got != 105 {
		t.Errorf("balance %v after purchase, want 105", got)
	}

	code, body = ts.call(t, http.MethodPost, "/api/payment/verify", tok, cb)
	if code != http.StatusOK || body["alreadyProcessed"] != true {
		t.Errorf("replay: %d %v", code, body)
	}
	if got := ts.credits(t, tok); got != 105 {
		t.Errorf("replay changed balance to %v", got)
	}

	code, body = ts.call(t, http.MethodGet, "/api/payment/transactions", tok, nil)
	if code != http.StatusOK {
		t.Fatalf("transactions: %d %v", code, body)
	}
	list := body["transactions"].([]any)
	if len(list) != 1 || list[0].(map[string]any)["payment"] != true {
		t.Errorf("unexpected transactions %v", list)
	}
}

func TestVerify_BadSignature(t *testing.T) {
	ts := setupServer(t)
	tok := ts.register(t, "a@x.com")
	_, body := ts.call(t, http.MethodPost, "/api/payment/razorpay", tok, map[string]string{"planId": "Advanced"})
	orderID := body["order"].(map[string]any)["id"].(string)
	ts.rzp.pay(orderID)

	good := razorpay.Sign(orderID, "pay_1", keySecret)
	code, body := ts.call(t, http.MethodPost, "/api/payment/verify", tok, map[string]string{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  razorpay.Sign(orderID, "pay_1", "wrong"),
	})
	if code != http.StatusBadRequest || body["success"] != false {
		t.Errorf("expected rejection, got %d %v", code, body)
	}
	raw, _ := json.Marshal(body)
	if strings.Contains(string(raw), good) || strings.Contains(string(raw), keySecret) {
		t.Error("response leaks signature material")
	}
	if got := ts.credits(t, tok); got != 5 {
		t.Errorf("balance %v, want 5", got)
	}
}

func TestOrder_UnknownPlan(t *testing.T) {
	ts := setupServer(t)
	tok := ts.register(t, "a@x.com")
	code, body := ts.call(t, http.MethodPost, "/api/payment/razorpay", tok, map[string]string{"planId": "Gold"})
	if code != http.StatusBadRequest || body["message"] != "Plan not found" {
		t.Errorf("unknown plan: %d %v", code, body)
	}
}

func TestPlansAndHealth(t *testing.T) {
	ts := setupServer(t)
	code, body := ts.call(t, http.MethodGet, "/api/payment/plans", "", nil)
	if code != http.StatusOK || len(body["plans"].([]any)) != 3 {
		t.Errorf("plans: %d %v", code, body)
	}
	code, body = ts.call(t, http.MethodGet, "/health", "", nil)
	if code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health: %d %v", code, body)
	}
}
