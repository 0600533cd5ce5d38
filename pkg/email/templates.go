package email

import (
	"fmt"
	"html"
	"time"
)

// CompensationAlertData describes a refund that could not be issued and
// needs a manual cancellation at the gateway.
type CompensationAlertData struct {
	AppointmentID string
	MerchantUID   string
	ImpUID        string
	Reason        string
	Code          string
	Error         string
	At            time.Time
	AppName       string
}

// BuildCompensationAlertEmail creates the operations alert for a failed refund.
func BuildCompensationAlertEmail(to []string, data CompensationAlertData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "medibook"
	}

	impUID := data.ImpUID
	if impUID == "" {
		impUID = "-"
	}

	subject := fmt.Sprintf("[%s] Manual refund required for appointment %s", appName, data.AppointmentID)

	textBody := fmt.Sprintf(`A payment confirmation failed and the automatic refund could not be issued.

Appointment:  %s
Merchant UID: %s
Imp UID:      %s
Code:         %s
Error:        %s
Cause:        %s
At:           %s

Cancel the charge in the iamport console and confirm with the patient.`,
		data.AppointmentID, data.MerchantUID, impUID, data.Code, data.Error, data.Reason,
		data.At.Format(time.RFC3339))

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #dc2626;">Manual refund required</h2>
    <p>A payment confirmation failed and the automatic refund could not be issued.</p>
    <table style="border-collapse: collapse;">
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Appointment</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Merchant UID</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Imp UID</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Code</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Error</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Cause</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>At</strong></td><td>%s</td></tr>
    </table>
    <p>Cancel the charge in the iamport console and confirm with the patient.</p>
</body>
</html>`,
		html.EscapeString(data.AppointmentID), html.EscapeString(data.MerchantUID), html.EscapeString(impUID),
		html.EscapeString(data.Code), html.EscapeString(data.Error), html.EscapeString(data.Reason),
		data.At.Format(time.RFC3339))

	return Message{
		To:       to,
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
		Headers:  map[string]string{"X-Priority": "1", "X-Appointment-Id": data.AppointmentID},
	}
}
