package ses

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"dockpass/internal/domain"
	"dockpass/internal/port"
)

type sesNotifier struct {
	client            *sesv2.Client
	fromAddress       string
	fromName          string
	supervisorAddress string
}

// NewSESNotifier creates a new SES-backed AlertNotifier that emails the
// floor supervisor about mismatch alerts.
func NewSESNotifier(region, fromAddress, fromName, supervisorAddress string) (port.AlertNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesNotifier{
		client:            client,
		fromAddress:       fromAddress,
		fromName:          fromName,
		supervisorAddress: supervisorAddress,
	}, nil
}

func (s *sesNotifier) NotifyMismatch(ctx context.Context, alert *domain.MismatchAlert, inv *domain.Invoice) error {
	subject := fmt.Sprintf("Scan mismatch on invoice %s — dispatch blocked", inv.InvoiceNo)
	htmlBody := buildMismatchHTML(alert, inv)
	textBody := fmt.Sprintf(
		"A scan mismatch was recorded on invoice %s (%s).\n\n"+
			"Customer label: %s\nInternal label: %s\n\n"+
			"The invoice is blocked until a supervisor reviews the alert and an admin unblocks it.\n",
		inv.InvoiceNo, inv.CustomerName, scanValue(alert.CustomerScan), scanValue(alert.InternalScan))

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{s.supervisorAddress},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func scanValue(raw json.RawMessage) string {
	var ev domain.ScanEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return "(unreadable)"
	}
	return ev.RawValue
}

func buildMismatchHTML(alert *domain.MismatchAlert, inv *domain.Invoice) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #B91C1C;">Scan mismatch — dispatch blocked</h2>
  <p>A document audit scan pair did not match on invoice <strong>%s</strong> (%s).</p>
  <table style="border-collapse: collapse; width: 100%%;">
    <tr><td style="padding: 6px; border: 1px solid #ddd;">Customer label</td><td style="padding: 6px; border: 1px solid #ddd;">%s</td></tr>
    <tr><td style="padding: 6px; border: 1px solid #ddd;">Internal label</td><td style="padding: 6px; border: 1px solid #ddd;">%s</td></tr>
    <tr><td style="padding: 6px; border: 1px solid #ddd;">Recorded at</td><td style="padding: 6px; border: 1px solid #ddd;">%s</td></tr>
  </table>
  <p>The invoice stays blocked until the alert is reviewed and an admin unblocks it.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">DockPass - Dispatch Tracking</p>
</body>
</html>`, inv.InvoiceNo, inv.CustomerName,
		scanValue(alert.CustomerScan), scanValue(alert.InternalScan),
		alert.CreatedAt.Format("2006-01-02 15:04:05 MST"))
}
