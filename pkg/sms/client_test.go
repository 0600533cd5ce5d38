package sms

import (
	"context"
	"errors"
	"testing"

	"github.com/Alijeyrad/medibook_backend/config"
)

func TestNewFromConfig_Disabled(t *testing.T) {
	cfg := config.SMSConfig{
		Enabled: false,
	}

	client, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}

	if client.IsEnabled() {
		t.Error("Expected client to be disabled")
	}
}

func TestNewFromConfig_EnabledWithoutAPIKey(t *testing.T) {
	cfg := config.SMSConfig{
		Enabled: true,
		SMSIR: config.SMSIRConfig{
			RefundTemplateID: "refund-template",
		},
	}

	if _, err := NewFromConfig(cfg); err == nil {
		t.Error("Expected error when API key is missing")
	}
}

func TestNewFromConfig_EnabledWithoutTemplate(t *testing.T) {
	cfg := config.SMSConfig{
		Enabled: true,
		SMSIR: config.SMSIRConfig{
			APIKey:    "test-api-key",
			SecretKey: "test-secret-key",
		},
	}

	if _, err := NewFromConfig(cfg); err == nil {
		t.Error("Expected error when refund template is missing")
	}
}

func TestNewFromConfig_EnabledWithAPIKey(t *testing.T) {
	cfg := config.SMSConfig{
		Enabled: true,
		SMSIR: config.SMSIRConfig{
			APIKey:           "test-api-key",
			SecretKey:        "test-secret-key",
			RefundTemplateID: "refund-template",
		},
	}

	client, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}

	if !client.IsEnabled() {
		t.Error("Expected client to be enabled")
	}
}

func TestSendRefundNotice_DisabledClient(t *testing.T) {
	client := &Client{enabled: false}

	err := client.SendRefundNotice(context.Background(), "+821012345678", RefundNotice{AppointmentID: "a1", MerchantUID: "m_1"})
	if err != nil {
		t.Errorf("Expected no error for disabled client, got: %v", err)
	}
}

func TestSendRefundNotice_Validation(t *testing.T) {
	client := &Client{enabled: true, refundTemplateID: "refund-template"}

	tests := []struct {
		name   string
		phone  string
		notice RefundNotice
	}{
		{name: "empty phone number", phone: "", notice: RefundNotice{AppointmentID: "a1"}},
		{name: "empty appointment id", phone: "+821012345678", notice: RefundNotice{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := client.SendRefundNotice(context.Background(), tt.phone, tt.notice); err == nil {
				t.Error("Expected error but got nil")
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		region  string
		want    string
		wantErr bool
	}{
		{name: "korean mobile with dashes", raw: "010-1234-5678", region: "KR", want: "+821012345678"},
		{name: "default region", raw: "01012345678", want: "+821012345678"},
		{name: "already international", raw: "+82 10 1234 5678", region: "US", want: "+821012345678"},
		{name: "empty", raw: "  ", wantErr: true},
		{name: "garbage", raw: "not-a-number", region: "KR", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw, tt.region)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPhone) {
					t.Errorf("NormalizePhone(%q) error = %v, want ErrInvalidPhone", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePhone(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsEnabled(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
	}{
		{"enabled client", true},
		{"disabled client", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{enabled: tt.enabled}
			if client.IsEnabled() != tt.enabled {
				t.Errorf("Expected IsEnabled() = %v, got %v", tt.enabled, client.IsEnabled())
			}
		})
	}
}
