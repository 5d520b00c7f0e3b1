package notify

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₹120", FormatCurrency(decimal.NewFromInt(120)))
	assert.Equal(t, "₹49.5", FormatCurrency(decimal.NewFromFloat(49.5)))
	assert.Equal(t, "₹0", FormatCurrency(decimal.Zero))
}

func TestRenderOrderConfirmation(t *testing.T) {
	email := OrderEmail{
		OrderID:         42,
		TrackingID:      "TRK123456789",
		PaymentMethod:   "COD",
		Total:           decimal.NewFromInt(120),
		ShippingAddress: "123 Farm Rd",
		Items: []ItemLine{
			{Name: "Tomato", Price: decimal.NewFromInt(50), Quantity: 2},
			{Name: "Potato", Price: decimal.NewFromInt(20), Quantity: 1},
		},
		OrderDate: time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC),
	}

	body := RenderOrderConfirmation(email)

	assert.Contains(t, body, "Order ID: 42")
	assert.Contains(t, body, "Tracking ID: TRK123456789")
	assert.Contains(t, body, "Total: ₹120")
	assert.Contains(t, body, "Payment Method: COD")
	assert.Contains(t, body, "Shipping Address: 123 Farm Rd")
	assert.Contains(t, body, "Tomato - 2 x ₹50")
	assert.Contains(t, body, "Potato - 1 x ₹20")
	assert.Contains(t, body, "14 Mar 2025")
}

func TestNewSMTPDispatcherRequiresHostAndRecipient(t *testing.T) {
	_, err := NewSMTPDispatcher(SMTPConfig{})
	require.Error(t, err)

	_, err = NewSMTPDispatcher(SMTPConfig{Host: "smtp.example.com"})
	require.Error(t, err)

	d, err := NewSMTPDispatcher(SMTPConfig{Host: "smtp.example.com", AdminEmail: "ops@example.com"})
	require.NoError(t, err)
	require.NotNil(t, d)
}
