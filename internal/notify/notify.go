// Package notify renders and delivers the order-confirmation email. Delivery
// is best effort: callers launch it detached and only log failures.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ItemLine is one rendered line of the confirmation mail.
type ItemLine struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// OrderEmail carries everything the confirmation message needs, snapshotted
// at dispatch time so the goroutine never touches request state.
type OrderEmail struct {
	OrderID         int64
	TrackingID      string
	PaymentMethod   string
	Total           decimal.Decimal
	ShippingAddress string
	Items           []ItemLine
	OrderDate       time.Time
}

// Dispatcher sends an order confirmation somewhere. The SMTP implementation
// is the real one; tests substitute a recorder.
type Dispatcher interface {
	DispatchOrderConfirmation(email OrderEmail) error
}

// SMTPConfig is read from the environment at startup.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// AdminEmail is the fixed operational recipient for new-order notices.
	AdminEmail string
}

type SMTPDispatcher struct {
	cfg SMTPConfig
}

func NewSMTPDispatcher(cfg SMTPConfig) (*SMTPDispatcher, error) {
	if cfg.Host == "" || cfg.AdminEmail == "" {
		return nil, fmt.Errorf("smtp host and admin email are required")
	}
	return &SMTPDispatcher{cfg: cfg}, nil
}

func (d *SMTPDispatcher) DispatchOrderConfirmation(email OrderEmail) error {
	subject := fmt.Sprintf("New Order #%d", email.OrderID)
	body := RenderOrderConfirmation(email)

	message := []byte("To: " + d.cfg.AdminEmail + "\r\n" +
		"From: FarmNav Orders <" + d.cfg.From + ">\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	var a smtp.Auth
	if d.cfg.Username != "" {
		a = smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	}
	addr := d.cfg.Host + ":" + d.cfg.Port
	if err := smtp.SendMail(addr, a, d.cfg.From, []string{d.cfg.AdminEmail}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// FormatCurrency renders an amount the way the storefront shows it.
func FormatCurrency(amount decimal.Decimal) string {
	return "₹" + amount.String()
}

// RenderOrderConfirmation builds the plain-text message body: header fields
// first, then one line per item.
func RenderOrderConfirmation(email OrderEmail) string {
	var b strings.Builder
	b.WriteString("New Order Notification\n")
	b.WriteString("----------------------\n")
	fmt.Fprintf(&b, "Order ID: %d\n", email.OrderID)
	fmt.Fprintf(&b, "Tracking ID: %s\n", email.TrackingID)
	fmt.Fprintf(&b, "Date: %s\n", email.OrderDate.Format("02 Jan 2006 15:04"))
	fmt.Fprintf(&b, "Total: %s\n", FormatCurrency(email.Total))
	fmt.Fprintf(&b, "Payment Method: %s\n", email.PaymentMethod)
	fmt.Fprintf(&b, "Shipping Address: %s\n", email.ShippingAddress)
	b.WriteString("\nOrder Items:\n")
	for _, item := range email.Items {
		fmt.Fprintf(&b, "%s - %d x %s\n", item.Name, item.Quantity, FormatCurrency(item.Price))
	}
	return b.String()
}
