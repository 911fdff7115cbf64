package service

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dml-mx/facturacion-portal-go/internal/config"
	apperrors "github.com/dml-mx/facturacion-portal-go/internal/errors"
	"github.com/dml-mx/facturacion-portal-go/internal/model"
	"github.com/dml-mx/facturacion-portal-go/internal/storage"
	"github.com/dml-mx/facturacion-portal-go/internal/util"
)

// amountTolerance absorbs rounding noise between what the buyer typed
// and what the marketplace recorded.
var amountTolerance = decimal.NewFromFloat(0.01)

// SubmissionInput is the raw multipart form as the handler collected
// it. Validation happens here, not in the handler.
type SubmissionInput struct {
	FlowToken     string
	Email         string
	Phone         string
	CFDIUsage     string
	PaymentMethod string
	MontoPagado   string
	Document      io.Reader
	Filename      string
}

// SubmissionResult is what the handler renders after the engine
// accepts.
type SubmissionResult struct {
	OrderID      string        `json:"orderId"`
	Message      string        `json:"message"`
	InvoiceID    string        `json:"invoiceId,omitempty"`
	PortalAccess *PortalAccess `json:"portalAccess,omitempty"`
}

// PendingOrders is the slice of PendingOrderStore the pipeline needs.
type PendingOrders interface {
	Get(ctx context.Context, token string) (*model.Order, error)
	Clear(ctx context.Context, token string)
}

// SubmissionService runs the full invoice request pipeline: resolve the
// pending order, validate the document, validate the form, build the
// engine payload, send it, and clean up. The temp file is removed on
// every exit path, success included.
type SubmissionService struct {
	pending   PendingOrders
	validator *DocumentValidator
	gateway   *WorkflowGateway
	store     *storage.Store
}

func NewSubmissionService(
	pending PendingOrders,
	validator *DocumentValidator,
	gateway *WorkflowGateway,
	store *storage.Store,
) *SubmissionService {
	return &SubmissionService{
		pending:   pending,
		validator: validator,
		gateway:   gateway,
		store:     store,
	}
}

func (s *SubmissionService) Submit(ctx context.Context, input SubmissionInput) (*SubmissionResult, error) {
	order, err := s.pending.Get(ctx, input.FlowToken)
	if err != nil {
		log.Error().Err(err).Msg("pending order lookup failed")
		return nil, apperrors.SessionExpired("Sesión expirada. Busca el pedido nuevamente.")
	}
	if order == nil {
		return nil, apperrors.SessionExpired("Sesión expirada. Busca el pedido nuevamente.")
	}

	filePath, err := s.validator.ValidateAndStore(input.Document, input.Filename)
	if err != nil {
		return nil, err
	}
	defer s.store.Remove(filePath)

	form, err := validateForm(input, order)
	if err != nil {
		return nil, err
	}

	req, err := BuildInvoiceRequest(order, *form, filePath, input.Filename)
	if err != nil {
		log.Error().Err(err).Str("order_id", order.OrderID).Msg("failed to build invoice request")
		return nil, apperrors.Internal("No se pudo preparar la solicitud. Intenta nuevamente.")
	}

	engineResp, err := s.gateway.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	s.pending.Clear(ctx, input.FlowToken)

	message := engineResp.Message
	if message == "" {
		message = "¡Solicitud enviada! Recibirás tu factura en: " + form.Email
	}

	return &SubmissionResult{
		OrderID:      order.OrderID,
		Message:      message,
		InvoiceID:    engineResp.InvoiceID,
		PortalAccess: engineResp.PortalAccess,
	}, nil
}

// validateForm applies the form rules in a fixed order: required
// fields, email shape, amount parse, amount tolerance, catalog
// membership. The first failure wins.
func validateForm(input SubmissionInput, order *model.Order) (*InvoiceForm, error) {
	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)
	cfdiUsage := strings.TrimSpace(input.CFDIUsage)
	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	montoPagado := strings.TrimSpace(input.MontoPagado)

	if cfdiUsage == "" || paymentMethod == "" || email == "" || montoPagado == "" {
		return nil, apperrors.MissingRequired("Todos los campos obligatorios deben ser completados.")
	}

	if !util.IsValidEmail(email) {
		return nil, apperrors.ValidationError("El formato del correo electrónico no es válido.")
	}

	amount, err := decimal.NewFromString(montoPagado)
	if err != nil {
		return nil, apperrors.ValidationError("El monto pagado debe ser un número válido.")
	}

	if amount.Sub(order.PaidAmount).Abs().GreaterThan(amountTolerance) {
		return nil, apperrors.AmountMismatch(order.PaidAmount.StringFixed(2))
	}

	if !config.IsValidCFDIUsage(cfdiUsage) {
		return nil, apperrors.ValidationError("El uso de CFDI seleccionado no es válido.")
	}
	if !config.IsValidPaymentMethod(paymentMethod) {
		return nil, apperrors.ValidationError("La forma de pago seleccionada no es válida.")
	}

	return &InvoiceForm{
		Email:         email,
		Phone:         phone,
		CFDIUsage:     cfdiUsage,
		PaymentMethod: paymentMethod,
		MontoPagado:   amount,
	}, nil
}
