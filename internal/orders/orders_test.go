package orders

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNewOrder() NewOrder {
	return NewOrder{
		PaymentMethod: "COD",
		CartItems: []CartItem{
			{ID: 1, Name: "Tomato", Price: decimal.NewFromInt(50), Quantity: 2},
		},
		Subtotal:        decimal.NewFromInt(100),
		ShippingCost:    decimal.NewFromInt(20),
		Total:           decimal.NewFromInt(120),
		ShippingAddress: "123 Farm Rd",
	}
}

func TestNewOrderValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NewOrder)
		wantErr string
	}{
		{
			name:   "valid order passes",
			mutate: func(no *NewOrder) {},
		},
		{
			name:    "empty cart rejected",
			mutate:  func(no *NewOrder) { no.CartItems = nil },
			wantErr: "at least one item",
		},
		{
			name:    "missing product reference rejected",
			mutate:  func(no *NewOrder) { no.CartItems[0].ID = 0 },
			wantErr: "product reference",
		},
		{
			name:    "missing product name rejected",
			mutate:  func(no *NewOrder) { no.CartItems[0].Name = "" },
			wantErr: "product name",
		},
		{
			name:    "negative item price rejected",
			mutate:  func(no *NewOrder) { no.CartItems[0].Price = decimal.NewFromInt(-1) },
			wantErr: "price",
		},
		{
			name:    "zero quantity rejected",
			mutate:  func(no *NewOrder) { no.CartItems[0].Quantity = 0 },
			wantErr: "quantity",
		},
		{
			name:    "missing shipping address rejected",
			mutate:  func(no *NewOrder) { no.ShippingAddress = "" },
			wantErr: "shipping address",
		},
		{
			name:    "missing payment method rejected",
			mutate:  func(no *NewOrder) { no.PaymentMethod = "" },
			wantErr: "payment method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			no := validNewOrder()
			tt.mutate(&no)
			err := no.validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var vErr ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClampMoney(t *testing.T) {
	assert.True(t, clampMoney(decimal.NewFromInt(-5)).IsZero())
	assert.True(t, clampMoney(decimal.NewFromFloat(-0.01)).IsZero())
	assert.True(t, clampMoney(decimal.Zero).IsZero())
	assert.Equal(t, "120", clampMoney(decimal.NewFromInt(120)).String())
}

func TestNewTrackingID(t *testing.T) {
	pattern := regexp.MustCompile(`^TRK\d{9}$`)
	for i := 0; i < 100; i++ {
		id := newTrackingID()
		assert.Regexp(t, pattern, id)
	}
}
