package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBuildCompensationAlertEmail(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	m := BuildCompensationAlertEmail([]string{"ops@example.com"}, CompensationAlertData{
		AppointmentID: "a-1",
		MerchantUID:   "m_1",
		Code:          "AUTH_FAILURE",
		Error:         "gateway authentication failed",
		Reason:        "payment gateway timed out",
		At:            at,
	})

	if !strings.Contains(m.Subject, "a-1") {
		t.Errorf("subject %q does not name the appointment", m.Subject)
	}
	for _, want := range []string{"m_1", "AUTH_FAILURE", "2024-03-01T09:30:00Z", "Imp UID:      -"} {
		if !strings.Contains(m.TextBody, want) {
			t.Errorf("text body missing %q", want)
		}
	}
	if _, err := buildMessage("noreply@example.com", m); err != nil {
		t.Errorf("buildMessage() error = %v", err)
	}
}

func TestBuildCompensationAlertEmail_EscapesHTML(t *testing.T) {
	m := BuildCompensationAlertEmail(nil, CompensationAlertData{AppointmentID: "a-1", Error: "<script>"})
	if strings.Contains(m.HTMLBody, "<script>") {
		t.Error("html body must escape error text")
	}
}

func TestBuildMessage_Validation(t *testing.T) {
	tests := []struct {
		name string
		from string
		msg  Message
	}{
		{name: "missing from", from: " ", msg: Message{To: []string{"x@y.z"}, Subject: "s", TextBody: "b"}},
		{name: "missing recipient", from: "a@b.c", msg: Message{To: []string{" "}, Subject: "s", TextBody: "b"}},
		{name: "missing subject", from: "a@b.c", msg: Message{To: []string{"x@y.z"}, TextBody: "b"}},
		{name: "missing body", from: "a@b.c", msg: Message{To: []string{"x@y.z"}, Subject: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildMessage(tt.from, tt.msg)
			var invalid ErrInvalidMessage
			if !errors.As(err, &invalid) {
				t.Errorf("buildMessage() error = %v, want ErrInvalidMessage", err)
			}
		})
	}
}

func TestSend_Disabled(t *testing.T) {
	c, _ := New(DefaultConfig())
	err := c.Send(context.Background(), Message{Subject: "s", TextBody: "b"})
	var disabled ErrDisabled
	if !errors.As(err, &disabled) {
		t.Errorf("Send() error = %v, want ErrDisabled", err)
	}
}

func TestNew_ValidatesEnabledConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "disabled needs nothing", cfg: Config{}},
		{name: "enabled without from", cfg: Config{Enabled: true, SMTPHost: "smtp"}, wantErr: true},
		{name: "enabled without host", cfg: Config{Enabled: true, From: "a@b.c"}, wantErr: true},
		{name: "enabled", cfg: Config{Enabled: true, From: "a@b.c", SMTPHost: "smtp", OpsRecipients: []string{" ops@b.c ", ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if tt.wantErr {
				var invalid ErrInvalidConfig
				if !errors.As(err, &invalid) {
					t.Errorf("New() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			for _, r := range c.OpsRecipients() {
				if r != strings.TrimSpace(r) || r == "" {
					t.Errorf("recipient %q not cleaned", r)
				}
			}
		})
	}
}
