// Package email delivers owner notifications.
package email

import "context"

// Sender delivers one notification email.
type Sender interface {
	SendLeadNotification(ctx context.Context, toEmail string, data LeadNotificationData) error
}

// LeadNotificationData fills the lead notification template.
type LeadNotificationData struct {
	OwnerName       string
	LeadName        string
	LeadEmail       string
	LeadPhone       string
	AssessmentTitle string
	Score           *int
	Completed       bool
}

// NoopSender is used when email delivery is not configured. Sends succeed
// silently so the worker never retries into a wall.
type NoopSender struct{}

func (NoopSender) SendLeadNotification(context.Context, string, LeadNotificationData) error {
	return nil
}
