package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/telemetry"
)

// SMTPConfig holds SMTP connection parameters.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // optional - some servers allow unauthenticated relay
	Password string
	From     string
	FromName string
}

// EmailSender sends order confirmation emails over SMTP using go-mail.
type EmailSender struct {
	config SMTPConfig
}

// NewEmailSender creates a new SMTP confirmation sender.
func NewEmailSender(config SMTPConfig) *EmailSender {
	return &EmailSender{config: config}
}

// Channel names the delivery channel.
func (s *EmailSender) Channel() string { return "email" }

// OrderCreated sends a plain-text confirmation to the shopper. Orders placed
// without an email address are skipped, not failed.
func (s *EmailSender) OrderCreated(ctx context.Context, store *domain.Store, order *domain.Order) error {
	if order.CustomerEmail == "" {
		return nil
	}

	msg := mail.NewMsg()
	if s.config.FromName != "" {
		if err := msg.FromFormat(s.config.FromName, s.config.From); err != nil {
			return fmt.Errorf("invalid from address: %w", err)
		}
	} else if err := msg.From(s.config.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(order.CustomerEmail); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(fmt.Sprintf("%s order #%d confirmed", store.Name, order.OrderNumber))
	msg.SetBodyString(mail.TypeTextPlain, confirmationBody(store, order))

	client, err := mail.NewClient(s.config.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	if telemetry.Business != nil {
		telemetry.Business.EmailSent.WithLabelValues(order.TenantID.String()).Inc()
	}
	return nil
}

func (s *EmailSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.config.Port),
		mail.WithTimeout(30 * time.Second),
	}

	// TLS mode based on port (go-mail auto-detects, but we can be explicit)
	switch s.config.Port {
	case 465:
		opts = append(opts, mail.WithSSL())
	case 587:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	if s.config.Username != "" && s.config.Password != "" {
		opts = append(opts,
			mail.WithUsername(s.config.Username),
			mail.WithPassword(s.config.Password),
			mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
		)
	}
	return opts
}

func confirmationBody(store *domain.Store, order *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thanks for your order from %s!\n\n", store.Name)
	fmt.Fprintf(&b, "Order #%d\n\n", order.OrderNumber)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %dx %s  %s\n", item.Quantity, item.Name,
			domain.FormatCents(item.UnitPriceCents*int64(item.Quantity)))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", domain.FormatCents(order.SubtotalCents))
	if order.DeliveryFeeCents > 0 {
		fmt.Fprintf(&b, "Delivery: %s\n", domain.FormatCents(order.DeliveryFeeCents))
	}
	if order.TaxCents > 0 {
		fmt.Fprintf(&b, "Tax: %s\n", domain.FormatCents(order.TaxCents))
	}
	fmt.Fprintf(&b, "Total: %s\n", domain.FormatCents(order.TotalCents))
	fmt.Fprintf(&b, "\nPayment: %s\n", order.PaymentMethod)
	if order.Fulfillment == domain.FulfillmentPickup {
		b.WriteString("Fulfillment: pickup\n")
	} else if order.ShippingAddress != nil {
		a := order.ShippingAddress
		fmt.Fprintf(&b, "Delivery to: %s, %s, %s %s\n", a.Line1, a.City, a.State, a.Zip)
	}
	return b.String()
}
