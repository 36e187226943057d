package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/evrodrive/leadgate/internal/leads"
	"github.com/evrodrive/leadgate/pkg/logging"
)

// LeadAlerter emails the sales inbox whenever a lead is captured.
//
// When no sender or destination is configured the alert is skipped with a log
// line; a missing mailbox never blocks a submission.
type LeadAlerter struct {
	email  EmailSender
	to     string
	logger *logging.Logger
}

// NewLeadAlerter creates a lead alerter. email may be nil when mail
// credentials are absent.
func NewLeadAlerter(email EmailSender, to string, logger *logging.Logger) *LeadAlerter {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadAlerter{
		email:  email,
		to:     to,
		logger: logger,
	}
}

// LeadCreated sends the notification email for a freshly persisted lead.
func (a *LeadAlerter) LeadCreated(ctx context.Context, lead *leads.Lead) error {
	if a.email == nil || a.to == "" {
		a.logger.Info("lead notification skipped: email not configured", "lead_id", lead.ID)
		return nil
	}

	subject := fmt.Sprintf("New Lead: %s %s - %s", lead.FirstName, lead.LastName, lead.DisplayModel())
	msg := EmailMessage{
		To:      a.to,
		Subject: subject,
		Body:    plainBody(lead),
		HTML:    htmlBody(lead),
	}

	if err := a.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: lead alert failed: %w", err)
	}
	a.logger.Info("lead notification sent", "lead_id", lead.ID, "to", a.to)
	return nil
}

func plainBody(lead *leads.Lead) string {
	return fmt.Sprintf(`New lead

Name: %s %s
Email: %s
Phone: %s
Country: %s
Language: %s
Model: %s
Budget: %s
Message: %s
UTM: %s
Lead ID: %s`,
		lead.FirstName, lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Country,
		lead.PreferredLanguage,
		lead.DisplayModel(),
		budgetLabel(lead.Budget),
		lead.Message,
		utmJSON(lead.UTM),
		lead.ID)
}

func htmlBody(lead *leads.Lead) string {
	return fmt.Sprintf(`<h3>New lead</h3>
<p><b>Name:</b> %s %s</p>
<p><b>Email:</b> %s</p>
<p><b>Phone:</b> %s</p>
<p><b>Country:</b> %s</p>
<p><b>Language:</b> %s</p>
<p><b>Model:</b> %s</p>
<p><b>Budget:</b> %s</p>
<p><b>Message:</b> %s</p>
<p><b>UTM:</b> %s</p>
<p><b>Lead ID:</b> %s</p>`,
		lead.FirstName, lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Country,
		lead.PreferredLanguage,
		lead.DisplayModel(),
		budgetLabel(lead.Budget),
		lead.Message,
		utmJSON(lead.UTM),
		lead.ID)
}

func budgetLabel(budget *float64) string {
	if budget == nil {
		return ""
	}
	return strconv.FormatFloat(*budget, 'f', -1, 64)
}

func utmJSON(utm map[string]string) string {
	if utm == nil {
		return "{}"
	}
	raw, err := json.Marshal(utm)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

var _ leads.Notifier = (*LeadAlerter)(nil)
