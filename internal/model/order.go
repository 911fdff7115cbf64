package model

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dml-mx/facturacion-portal-go/internal/config"
)

// Order is the read-only projection of a marketplace order used by the
// invoicing flow. It resolves by order id, pack id, or payment id; the
// receiver id comes from the joined shipment row.
type Order struct {
	OrderID       string          `db:"order_id" json:"orderId"`
	PaidAmount    decimal.Decimal `db:"paid_amount" json:"paidAmount"`
	BuyerNickname *string         `db:"buyer_nickname" json:"buyerNickname,omitempty"`
	CurrencyID    *string         `db:"currency_id" json:"currencyId,omitempty"`
	ShippingID    *string         `db:"shipping_id" json:"shippingId,omitempty"`
	ReceiverID    *string         `db:"receiver_id" json:"receiverId,omitempty"`
}

// DisplayName returns the buyer nickname, or a synthesized placeholder
// when the marketplace did not expose one.
func (o *Order) DisplayName() string {
	if o.BuyerNickname != nil && *o.BuyerNickname != "" {
		return *o.BuyerNickname
	}
	return fmt.Sprintf("Cliente ML - %s", o.OrderID)
}

// Currency returns the order currency, defaulting to MXN.
func (o *Order) Currency() string {
	if o.CurrencyID != nil && *o.CurrencyID != "" {
		return *o.CurrencyID
	}
	return config.DefaultCurrency
}
