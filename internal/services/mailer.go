package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"verideal_back_end/internal/config"
	"verideal_back_end/internal/models"
	"verideal_back_end/internal/utils"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	gomail "github.com/wneessen/go-mail"
)

const orderQRCid = "order-qr"

// Email is one outgoing HTML message.
type Email struct {
	To      string
	Subject string
	HTML    string
	Inline  []InlineImage
}

// InlineImage is referenced from the HTML body as cid:<ContentID>.
type InlineImage struct {
	ContentID string
	Data      []byte
}

// Transport delivers an Email.
type Transport interface {
	Send(ctx context.Context, from string, e Email) error
}

// Mailer sends the storefront's transactional emails.
type Mailer struct {
	transport   Transport
	from        string
	contactTo   string
	frontendURL string
	otpTTL      time.Duration
}

// NewMailer returns nil when no provider is configured.
func NewMailer(cfg config.SMTPConfig, frontendURL string, otpTTL time.Duration) *Mailer {
	var transport Transport
	switch cfg.Provider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			log.Println("⚠️ SENDGRID_API_KEY not set, emails disabled")
			return nil
		}
		transport = &SendGridTransport{apiKey: cfg.SendGridAPIKey}
	default:
		if cfg.Host == "" {
			log.Println("⚠️ SMTP_HOST not set, emails disabled")
			return nil
		}
		transport = &SMTPTransport{cfg: cfg}
	}
	log.Printf("📧 Mailer ready (%s)", cfg.Provider)
	return NewMailerWithTransport(transport, cfg.From, cfg.ContactRecipient, frontendURL, otpTTL)
}

func NewMailerWithTransport(t Transport, from, contactTo, frontendURL string, otpTTL time.Duration) *Mailer {
	return &Mailer{transport: t, from: from, contactTo: contactTo, frontendURL: frontendURL, otpTTL: otpTTL}
}

// SendOrderConfirmation mails the receipt with an inline QR code linking to the order.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, order models.Order) error {
	if order.CustomerInfo.Email == "" {
		return fmt.Errorf("order %s has no customer email: %w", order.ID, models.ErrInvalidInput)
	}

	var inline []InlineImage
	cid := ""
	if png, err := utils.GenerateOrderQR(m.frontendURL, order.ID); err != nil {
		log.Printf("⚠️ QR code for %s skipped: %v", order.ID, err)
	} else {
		cid = orderQRCid
		inline = append(inline, InlineImage{ContentID: cid, Data: png})
	}

	html, err := OrderConfirmationHTML(order, cid)
	if err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	err = m.transport.Send(ctx, m.from, Email{
		To:      order.CustomerInfo.Email,
		Subject: fmt.Sprintf("Your Order Confirmation (#%s)", order.ID),
		HTML:    html,
		Inline:  inline,
	})
	if err != nil {
		return err
	}
	log.Printf("📧 Confirmation email sent to %s (order %s)", order.CustomerInfo.Email, order.ID)
	return nil
}

func (m *Mailer) SendOTP(ctx context.Context, email, code string) error {
	html, err := OTPHTML(code, int(m.otpTTL.Minutes()))
	if err != nil {
		return err
	}
	return m.transport.Send(ctx, m.from, Email{To: email, Subject: "Your VeriDeal sign-in code", HTML: html})
}

func (m *Mailer) SendWelcome(ctx context.Context, email, name string) error {
	if name == "" {
		name = email
	}
	html, err := WelcomeHTML(name, m.frontendURL+"/products")
	if err != nil {
		return err
	}
	return m.transport.Send(ctx, m.from, Email{To: email, Subject: "Welcome to VeriDeal!", HTML: html})
}

// SendContact forwards a contact form message to the shop's inbox.
func (m *Mailer) SendContact(ctx context.Context, name, email, message string) error {
	if m.contactTo == "" {
		return fmt.Errorf("CONTACT_RECIPIENT: %w", models.ErrNotConfigured)
	}
	html, err := ContactHTML(name, email, message)
	if err != nil {
		return err
	}
	return m.transport.Send(ctx, m.from, Email{To: m.contactTo, Subject: "New Contact Message", HTML: html})
}

//
// --- SMTP ---
//

type SMTPTransport struct {
	cfg config.SMTPConfig
}

func (t *SMTPTransport) Send(ctx context.Context, from string, e Email) error {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(e.To); err != nil {
		return err
	}
	msg.Subject(e.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, e.HTML)
	for _, img := range e.Inline {
		if err := msg.EmbedReader(img.ContentID, bytes.NewReader(img.Data), gomail.WithFileContentType("image/png")); err != nil {
			return err
		}
	}

	client, err := gomail.NewClient(t.cfg.Host,
		gomail.WithPort(t.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
		gomail.WithUsername(t.cfg.Username),
		gomail.WithPassword(t.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Sending email to", e.To)
	return client.DialAndSendWithContext(ctx, msg)
}

//
// --- SENDGRID ---
//

type SendGridTransport struct {
	apiKey string
}

func (t *SendGridTransport) Send(ctx context.Context, from string, e Email) error {
	if e.To == "" {
		return errors.New("to address is empty")
	}
	sender, err := mail.ParseAddress(from)
	if err != nil {
		sender = &mail.Address{Name: "VeriDeal", Address: strings.TrimSpace(from)}
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(sender.Name, sender.Address),
		e.Subject,
		sgmail.NewEmail("", e.To),
		e.Subject,
		e.HTML,
	)
	for _, img := range e.Inline {
		a := sgmail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(img.Data))
		a.SetType("image/png")
		a.SetFilename(img.ContentID + ".png")
		a.SetDisposition("inline")
		a.SetContentID(img.ContentID)
		message.AddAttachment(a)
	}

	response, err := sendgrid.NewSendClient(t.apiKey).SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}
	log.Printf("📤 SendGrid accepted email to %s (status %d)", e.To, response.StatusCode)
	return nil
}
