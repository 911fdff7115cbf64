package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice payment statuses as written by the workflow engine.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Invoice is a row of facturas. The workflow engine owns the lifecycle;
// the portal reads, serves download links, and applies status updates
// pushed through the webhook receiver.
type Invoice struct {
	ID                        int64               `db:"id" json:"id"`
	UsuarioID                 int64               `db:"usuario_id" json:"-"`
	OrderID                   string              `db:"order_id" json:"orderId"`
	InvoiceName               *string             `db:"invoice_name" json:"invoiceName,omitempty"`
	Amount                    decimal.Decimal     `db:"amount" json:"amount"`
	CurrencyID                string              `db:"currency_id" json:"currencyId"`
	Status                    string              `db:"status" json:"status"`
	PaymentStatus             string              `db:"payment_status" json:"paymentStatus"`
	PaidAmount                decimal.NullDecimal `db:"paid_amount" json:"paidAmount,omitempty"`
	PaymentDate               *time.Time          `db:"payment_date" json:"paymentDate,omitempty"`
	PDFURL                    *string             `db:"pdf_url" json:"-"`
	XMLURL                    *string             `db:"xml_url" json:"-"`
	ObservacionesContabilidad *string             `db:"observaciones_contabilidad" json:"observacionesContabilidad,omitempty"`
	NotasCliente              *string             `db:"notas_cliente" json:"notasCliente,omitempty"`
	CreatedAt                 time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt                 time.Time           `db:"updated_at" json:"updatedAt"`
}

// HasPDF reports whether a generated PDF artifact is available.
func (i *Invoice) HasPDF() bool {
	return i.PDFURL != nil && *i.PDFURL != ""
}

// HasXML reports whether a generated XML artifact is available.
func (i *Invoice) HasXML() bool {
	return i.XMLURL != nil && *i.XMLURL != ""
}

// MonthlyInvoiceStats is one bucket of the per-month dashboard chart.
type MonthlyInvoiceStats struct {
	Mes        time.Time       `db:"mes" json:"mes"`
	Total      int             `db:"total" json:"total"`
	MontoTotal decimal.Decimal `db:"monto_total" json:"montoTotal"`
	Pagadas    int             `db:"pagadas" json:"pagadas"`
}
