// internal/app/system/notify/notify.go
//
// Package notify defines the outbound messaging interfaces (email, SMS,
// WhatsApp). The concrete providers live behind these interfaces so the
// scholarship and lead features can send without knowing the vendor.
package notify

import "context"

// Message is one outbound notification.
type Message struct {
	Recipients  []string // email addresses or phone numbers
	Subject     string
	Template    string
	Body        string
	Attachments []Attachment
}

// Attachment is a file attached to an email.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// EmailSender sends email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, msg Message) error
}

// SMSSender sends SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, msg Message) error
}

// WhatsAppSender sends WhatsApp messages.
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, msg Message) error
}

// Senders bundles the configured providers. Nil members mean the channel
// is not configured; callers must check before sending.
type Senders struct {
	Email    EmailSender
	SMS      SMSSender
	WhatsApp WhatsAppSender
}
