// Package iamport provides a minimal HTTP client for the iamport (PortOne v1) REST API.
package iamport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Alijeyrad/medibook_backend/config"
)

const (
	defaultBaseURL = "https://api.iamport.kr"
	tracerName     = "github.com/Alijeyrad/medibook_backend/pkg/iamport"
)

// Messages iamport returns from /payments/cancel when there is no live charge.
var nothingToCancelMarkers = []string{
	"취소할 결제건이 존재하지 않습니다",
	"이미 전액취소된 주문입니다",
}

// Client is a lightweight iamport HTTP client. Credentials are injected at
// construction and never shared through package state.
type Client struct {
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
}

// New creates a Client from config.
func New(cfg config.IamportConfig) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: 30 * time.Second})
}

// NewWithHTTPClient is New with a caller supplied transport.
func NewWithHTTPClient(cfg config.IamportConfig, hc *http.Client) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		baseURL:    baseURL,
		httpClient: hc,
	}
}

// Authenticate obtains a fresh access token. Tokens are not cached.
func (c *Client) Authenticate(ctx context.Context) (AccessToken, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "iamport.Authenticate")
	defer span.End()

	body := map[string]string{
		"imp_key":    c.apiKey,
		"imp_secret": c.apiSecret,
	}

	var resp envelope[tokenResponse]
	if err := c.do(ctx, http.MethodPost, "/users/getToken", "", body, &resp); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return AccessToken{}, fmt.Errorf("iamport get token: %w", err)
	}
	if resp.Response == nil || resp.Response.AccessToken == "" {
		span.SetStatus(codes.Error, "empty token")
		return AccessToken{}, fmt.Errorf("iamport get token: %w: empty access_token", ErrMalformed)
	}

	return AccessToken{
		Token:     resp.Response.AccessToken,
		ExpiresAt: time.Unix(resp.Response.ExpiredAt, 0),
	}, nil
}

// PaymentByImpUID fetches the authoritative payment record for impUID.
// The lookup authenticates on its own with a fresh token.
func (c *Client) PaymentByImpUID(ctx context.Context, impUID string) (Payment, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "iamport.PaymentByImpUID")
	defer span.End()
	span.SetAttributes(attribute.String("iamport.imp_uid", impUID))

	if strings.TrimSpace(impUID) == "" {
		return Payment{}, fmt.Errorf("iamport get payment: %w: empty imp_uid", ErrRejected)
	}

	token, err := c.Authenticate(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Payment{}, err
	}

	var resp envelope[paymentResponse]
	path := "/payments/" + url.PathEscape(impUID)
	if err := c.do(ctx, http.MethodGet, path, token.Token, nil, &resp); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Payment{}, fmt.Errorf("iamport get payment: %w", err)
	}

	p := resp.Response
	if p == nil || p.ImpUID == "" || p.MerchantUID == "" {
		span.SetStatus(codes.Error, "missing payment fields")
		return Payment{}, fmt.Errorf("iamport get payment: %w: missing payment fields", ErrMalformed)
	}

	return Payment{
		ImpUID:      p.ImpUID,
		MerchantUID: p.MerchantUID,
		Amount:      p.Amount,
		Status:      p.Status,
		PaidAt:      time.Unix(p.PaidAt, 0).UTC(),
	}, nil
}

// Cancel requests a full cancellation of the charge identified by merchantUID.
// It returns ErrNothingToCancel when the gateway reports no live charge.
func (c *Client) Cancel(ctx context.Context, token AccessToken, merchantUID, reason string) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "iamport.Cancel")
	defer span.End()
	span.SetAttributes(attribute.String("iamport.merchant_uid", merchantUID))

	body := map[string]string{
		"merchant_uid": merchantUID,
		"reason":       reason,
	}

	var resp envelope[cancelResponse]
	err := c.do(ctx, http.MethodPost, "/payments/cancel", token.Token, body, &resp)
	if err != nil {
		if isNothingToCancel(err) {
			return ErrNothingToCancel
		}
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("iamport cancel: %w", err)
	}
	return nil
}

func isNothingToCancel(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.Envelope || apiErr.Code == 0 {
		return false
	}
	for _, m := range nothingToCancelMarkers {
		if strings.Contains(apiErr.Message, m) {
			return true
		}
	}
	return false
}

// do sends a JSON request and decodes the enveloped response into out.
// A non-zero envelope code or an HTTP error status yields *APIError.
func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return classifyTransport(err)
	}

	var head struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		if res.StatusCode >= http.StatusBadRequest {
			return &APIError{HTTPStatus: res.StatusCode, Code: -1, Message: http.StatusText(res.StatusCode)}
		}
		return fmt.Errorf("%w: decode response: %v", ErrMalformed, err)
	}
	if res.StatusCode >= http.StatusBadRequest || head.Code != 0 {
		return &APIError{HTTPStatus: res.StatusCode, Code: head.Code, Message: head.Message, Envelope: true}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrMalformed, err)
	}
	return nil
}
