package sms

import (
	"context"
	"fmt"

	"github.com/arsmn/go-smsir/smsir"

	"github.com/Alijeyrad/medibook_backend/config"
)

// Client provides SMS sending functionality via sms.ir.
type Client struct {
	client           *smsir.Client
	enabled          bool
	refundTemplateID string
}

// NewFromConfig creates a new SMS client from the application configuration.
// If SMS is disabled, returns a client that no-ops on all operations.
func NewFromConfig(cfg config.SMSConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{enabled: false}, nil
	}

	if cfg.SMSIR.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}
	if cfg.SMSIR.RefundTemplateID == "" {
		return nil, fmt.Errorf("sms.ir refund template required when SMS enabled")
	}

	client := smsir.NewClient().WithAuthentication(cfg.SMSIR.APIKey, cfg.SMSIR.SecretKey)

	return &Client{
		client:           client,
		enabled:          true,
		refundTemplateID: cfg.SMSIR.RefundTemplateID,
	}, nil
}

// RefundNotice is the data rendered into the refund template.
type RefundNotice struct {
	PatientName   string
	AppointmentID string
	MerchantUID   string
}

// SendRefundNotice tells a patient that the charge for their appointment was
// cancelled. If SMS is disabled, this is a no-op and returns nil.
//
// The template must have the parameters "name", "appointment" and "order".
func (c *Client) SendRefundNotice(ctx context.Context, phoneNumber string, n RefundNotice) error {
	if !c.enabled {
		return nil
	}

	if phoneNumber == "" {
		return fmt.Errorf("phone number is required")
	}
	if n.AppointmentID == "" {
		return fmt.Errorf("appointment id is required")
	}

	req := &smsir.UltraFastSendRequest{
		Mobile:     phoneNumber,
		TemplateID: c.refundTemplateID,
		Parameters: []smsir.UltraFastParameter{
			{Key: "name", Value: n.PatientName},
			{Key: "appointment", Value: n.AppointmentID},
			{Key: "order", Value: n.MerchantUID},
		},
	}

	_, err := c.client.Verification.UltraFastSend(ctx, req)
	if err != nil {
		return fmt.Errorf("sms.ir send failed: %w", err)
	}

	return nil
}

// IsEnabled returns whether SMS sending is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}
