package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrodrive/leadgate/internal/leads"
)

type capturingSender struct {
	err  error
	sent []EmailMessage
}

func (c *capturingSender) Send(ctx context.Context, msg EmailMessage) error {
	c.sent = append(c.sent, msg)
	return c.err
}

func sampleLead() *leads.Lead {
	budget := 42000.0
	return &leads.Lead{
		ID:                "lead-123",
		FirstName:         "Ana",
		LastName:          "Popescu",
		Email:             "ana@example.com",
		Phone:             "+40123456789",
		Country:           "RO",
		PreferredLanguage: "ro",
		ModelID:           "BYD-SEAL",
		ModelName:         "BYD Seal",
		Budget:            &budget,
		Message:           "Interested in a test drive",
		GDPRConsent:       true,
		UTM:               map[string]string{"utm_source": "google"},
		CreatedAt:         time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestLeadAlerterSkipsWhenUnconfigured(t *testing.T) {
	sender := &capturingSender{}

	// No sender at all.
	alerter := NewLeadAlerter(nil, "sales@evrodrive.eu", nil)
	require.NoError(t, alerter.LeadCreated(context.Background(), sampleLead()))

	// Sender but no destination.
	alerter = NewLeadAlerter(sender, "", nil)
	require.NoError(t, alerter.LeadCreated(context.Background(), sampleLead()))
	assert.Empty(t, sender.sent)
}

func TestLeadAlerterSendsAlert(t *testing.T) {
	sender := &capturingSender{}
	alerter := NewLeadAlerter(sender, "sales@evrodrive.eu", nil)

	require.NoError(t, alerter.LeadCreated(context.Background(), sampleLead()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "sales@evrodrive.eu", msg.To)
	assert.Equal(t, "New Lead: Ana Popescu - BYD Seal", msg.Subject)
	assert.Contains(t, msg.Body, "Email: ana@example.com")
	assert.Contains(t, msg.Body, "Budget: 42000")
	assert.Contains(t, msg.Body, `UTM: {"utm_source":"google"}`)
	assert.Contains(t, msg.Body, "Lead ID: lead-123")
	assert.Contains(t, msg.HTML, "<b>Model:</b> BYD Seal")
	assert.Contains(t, msg.HTML, "<b>Lead ID:</b> lead-123")
}

func TestLeadAlerterSubjectFallsBackToModelID(t *testing.T) {
	sender := &capturingSender{}
	alerter := NewLeadAlerter(sender, "sales@evrodrive.eu", nil)

	lead := sampleLead()
	lead.ModelName = ""
	require.NoError(t, alerter.LeadCreated(context.Background(), lead))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "New Lead: Ana Popescu - BYD-SEAL", sender.sent[0].Subject)
}

func TestLeadAlerterEmptyOptionalFields(t *testing.T) {
	sender := &capturingSender{}
	alerter := NewLeadAlerter(sender, "sales@evrodrive.eu", nil)

	lead := sampleLead()
	lead.Budget = nil
	lead.UTM = nil
	require.NoError(t, alerter.LeadCreated(context.Background(), lead))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Body, "Budget: \n")
	assert.Contains(t, sender.sent[0].Body, "UTM: {}")
}

func TestLeadAlerterWrapsSendError(t *testing.T) {
	sendErr := errors.New("quota exceeded")
	alerter := NewLeadAlerter(&capturingSender{err: sendErr}, "sales@evrodrive.eu", nil)

	err := alerter.LeadCreated(context.Background(), sampleLead())
	require.Error(t, err)
	assert.ErrorIs(t, err, sendErr)
	assert.Contains(t, err.Error(), "lead alert failed")
}
