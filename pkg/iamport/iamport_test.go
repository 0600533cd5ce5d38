package iamport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Alijeyrad/medibook_backend/config"
)

type fakeGateway struct {
	tokenCalls  atomic.Int32
	cancelCalls atomic.Int32

	paymentHandler http.HandlerFunc
	cancelHandler  http.HandlerFunc
}

func (f *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/users/getToken":
		f.tokenCalls.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["imp_key"] != "key" || body["imp_secret"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":-1,"message":"invalid credentials","response":null}`))
			return
		}
		_, _ = w.Write([]byte(`{"code":0,"message":null,"response":{"access_token":"tok_1","now":1700000000,"expired_at":1700001800}}`))
	case r.Method == http.MethodGet && len(r.URL.Path) > len("/payments/"):
		if r.Header.Get("Authorization") != "tok_1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.paymentHandler(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/payments/cancel":
		f.cancelCalls.Add(1)
		f.cancelHandler(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, fg *fakeGateway) *Client {
	t.Helper()
	srv := httptest.NewServer(fg)
	t.Cleanup(srv.Close)
	return New(config.IamportConfig{BaseURL: srv.URL, APIKey: "key", APISecret: "secret"})
}

func TestAuthenticate(t *testing.T) {
	fg := &fakeGateway{}
	c := newTestClient(t, fg)

	tok, err := c.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if tok.Token != "tok_1" {
		t.Errorf("token = %q, want tok_1", tok.Token)
	}
	if !tok.ExpiresAt.Equal(time.Unix(1700001800, 0)) {
		t.Errorf("ExpiresAt = %v", tok.ExpiresAt)
	}
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	fg := &fakeGateway{}
	srv := httptest.NewServer(fg)
	defer srv.Close()
	c := New(config.IamportConfig{BaseURL: srv.URL, APIKey: "key", APISecret: "wrong"})

	_, err := c.Authenticate(context.Background())
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("Authenticate() error = %v, want ErrRejected", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("expected APIError with 401, got %v", err)
	}
}

func TestPaymentByImpUID(t *testing.T) {
	fg := &fakeGateway{
		paymentHandler: func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/payments/imp_1" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{"code":0,"message":"","response":{"imp_uid":"imp_1","merchant_uid":"m_1","amount":10000,"status":"paid","paid_at":1700000100}}`))
		},
	}
	c := newTestClient(t, fg)

	p, err := c.PaymentByImpUID(context.Background(), "imp_1")
	if err != nil {
		t.Fatalf("PaymentByImpUID() error = %v", err)
	}
	if p.MerchantUID != "m_1" || p.Amount != 10000 || p.Status != StatusPaid {
		t.Errorf("unexpected payment: %+v", p)
	}
	if !p.PaidAt.Equal(time.Unix(1700000100, 0)) {
		t.Errorf("PaidAt = %v", p.PaidAt)
	}
	if got := fg.tokenCalls.Load(); got != 1 {
		t.Errorf("token calls = %d, want 1", got)
	}
}

func TestPaymentByImpUID_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		timeout time.Duration
		wantErr error
	}{
		{
			name: "gateway code non-zero",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"code":1,"message":"존재하지 않는 결제정보입니다.","response":null}`))
			},
			wantErr: ErrRejected,
		},
		{
			name: "http 500 without body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: ErrRejected,
		},
		{
			name: "missing fields",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"code":0,"message":"","response":{"amount":1}}`))
			},
			wantErr: ErrMalformed,
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			wantErr: ErrMalformed,
		},
		{
			name: "slow gateway",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			timeout: 100 * time.Millisecond,
			wantErr: ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeGateway{paymentHandler: tt.handler})

			ctx := context.Background()
			if tt.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, tt.timeout)
				defer cancel()
			}

			_, err := c.PaymentByImpUID(ctx, "imp_1")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("PaymentByImpUID() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaymentByImpUID_EmptyID(t *testing.T) {
	fg := &fakeGateway{}
	c := newTestClient(t, fg)

	if _, err := c.PaymentByImpUID(context.Background(), " "); !errors.Is(err, ErrRejected) {
		t.Errorf("expected ErrRejected, got %v", err)
	}
	if fg.tokenCalls.Load() != 0 {
		t.Error("no token should be requested for an empty imp_uid")
	}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "cancelled",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var body map[string]string
				_ = json.NewDecoder(r.Body).Decode(&body)
				if body["merchant_uid"] != "m_1" || body["reason"] == "" {
					t.Errorf("unexpected cancel body: %v", body)
				}
				if r.Header.Get("Authorization") != "tok_1" {
					t.Errorf("missing token header")
				}
				_, _ = w.Write([]byte(`{"code":0,"message":"","response":{"imp_uid":"imp_1","merchant_uid":"m_1","cancel_amount":10000,"status":"cancelled"}}`))
			},
		},
		{
			name: "nothing to cancel",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"code":1,"message":"취소할 결제건이 존재하지 않습니다.","response":null}`))
			},
			wantErr: ErrNothingToCancel,
		},
		{
			name: "already fully cancelled",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"code":1,"message":"이미 전액취소된 주문입니다.","response":null}`))
			},
			wantErr: ErrNothingToCancel,
		},
		{
			name: "rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"code":1,"message":"환불 가능 금액을 초과합니다.","response":null}`))
			},
			wantErr: ErrRejected,
		},
		{
			name: "html 404 from a proxy",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`<html>404 Not Found (nginx)</html>`))
			},
			wantErr: ErrRejected,
		},
		{
			name: "unrelated not found message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"code":-1,"message":"PG merchant configuration not found","response":null}`))
			},
			wantErr: ErrRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fg := &fakeGateway{cancelHandler: tt.handler}
			c := newTestClient(t, fg)

			err := c.Cancel(context.Background(), AccessToken{Token: "tok_1"}, "m_1", "appointment confirmation failed")
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Cancel() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Cancel() error = %v, want %v", err, tt.wantErr)
			}
			if errors.Is(tt.wantErr, ErrRejected) && errors.Is(err, ErrNothingToCancel) {
				t.Errorf("Cancel() reported nothing to cancel for %q", tt.name)
			}
			if got := fg.cancelCalls.Load(); got != 1 {
				t.Errorf("cancel calls = %d, want 1", got)
			}
		})
	}
}

func TestCancel_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(config.IamportConfig{BaseURL: url, APIKey: "key", APISecret: "secret"})
	err := c.Cancel(context.Background(), AccessToken{Token: "tok"}, "m_1", "reason")
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Cancel() error = %v, want ErrTransport", err)
	}
}
