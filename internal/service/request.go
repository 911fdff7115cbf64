package service

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dml-mx/facturacion-portal-go/internal/config"
	"github.com/dml-mx/facturacion-portal-go/internal/model"
)

// CSFDocument is the embedded fiscal certificate, base64 over the raw
// PDF bytes.
type CSFDocument struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	MimeType string `json:"mime_type"`
}

// InvoiceRequest is the wire payload sent to the workflow engine. Field
// names are the engine's contract and must not change. Amounts travel
// as JSON numbers.
type InvoiceRequest struct {
	OrderID    string  `json:"order_id"`
	PaidAmount float64 `json:"paid_amount"`
	CurrencyID string  `json:"currency_id"`

	ReceiverID *string `json:"receiver_id"`
	ShippingID *string `json:"shipping_id"`
	Nombre     string  `json:"nombre"`

	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	CFDIUsage     string  `json:"cfdi_usage"`
	PaymentMethod string  `json:"payment_method"`
	MontoPagado   float64 `json:"monto_pagado"`

	CSFPDF CSFDocument `json:"csf_pdf"`

	Timestamp      string `json:"timestamp"`
	Source         string `json:"source"`
	IdempotencyKey string `json:"idempotency_key"`
}

// InvoiceForm is the validated buyer input feeding the request.
type InvoiceForm struct {
	Email         string
	Phone         string
	CFDIUsage     string
	PaymentMethod string
	MontoPagado   decimal.Decimal
}

// BuildInvoiceRequest assembles the engine payload from the pending
// order, the validated form, and the stored certificate file.
func BuildInvoiceRequest(order *model.Order, form InvoiceForm, filePath, filename string) (*InvoiceRequest, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	return &InvoiceRequest{
		OrderID:    order.OrderID,
		PaidAmount: order.PaidAmount.InexactFloat64(),
		CurrencyID: order.Currency(),

		ReceiverID: order.ReceiverID,
		ShippingID: order.ShippingID,
		Nombre:     order.DisplayName(),

		Email:         form.Email,
		Phone:         form.Phone,
		CFDIUsage:     form.CFDIUsage,
		PaymentMethod: form.PaymentMethod,
		MontoPagado:   form.MontoPagado.InexactFloat64(),

		CSFPDF: CSFDocument{
			Filename: filename,
			Content:  base64.StdEncoding.EncodeToString(raw),
			MimeType: "application/pdf",
		},

		Timestamp:      time.Now().Format(time.RFC3339),
		Source:         config.SourceTag,
		IdempotencyKey: idempotencyKey(order.OrderID, form.Email, form.MontoPagado, raw),
	}, nil
}

// idempotencyKey lets the engine deduplicate a double-submitted form:
// the same order, email, amount, and document always hash to the same
// key.
func idempotencyKey(orderID, email string, amount decimal.Decimal, document []byte) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|", orderID, email, amount.StringFixed(2))
	h.Write(document)
	return hex.EncodeToString(h.Sum(nil))
}
