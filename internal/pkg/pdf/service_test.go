package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
)

func TestRenderHTML(t *testing.T) {
	cfg := &config.Config{
		Checkout: config.CheckoutConfig{Currency: "UAH"},
		Invoice:  config.InvoiceConfig{CompanyName: "Marketplace", CompanyEmail: "billing@example.com"},
	}
	svc := NewService(cfg)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	o := &order.Order{
		ID:              42,
		CreatedAt:       time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC),
		Status:          order.OrderStatusPending,
		PaymentProvider: order.PaymentPrivat24,
		TotalPrice:      decimal.RequireFromString("139997.00"),
		Shipping:        order.ShippingInfo{FirstName: "Ivan", LastName: "<Petrenko>"},
		Lines: []order.Line{
			{ProductName: "Phone X", Quantity: 2, Price: decimal.RequireFromString("49999.00")},
			{ProductName: "Runner", SizeName: "42", Quantity: 1, Price: decimal.RequireFromString("39999.00")},
		},
	}

	html, err := svc.RenderHTML(o)
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "INV-ORD-20260228-00042")
	assert.Contains(t, page, "March 1, 2026")
	assert.Contains(t, page, "99998.00")
	assert.Contains(t, page, "Total: 139997.00 UAH")
	assert.Contains(t, page, "&lt;Petrenko&gt;")
	assert.NotContains(t, page, "<Petrenko>")
}
