package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/dml-mx/facturacion-portal-go/internal/errors"
	"github.com/dml-mx/facturacion-portal-go/internal/model"
	"github.com/dml-mx/facturacion-portal-go/internal/repository"
	"github.com/dml-mx/facturacion-portal-go/internal/storage"
)

// WebhookService applies workflow engine callbacks. The engine is
// trusted once past the token check, but its payloads reference orders
// that may not have invoices yet; a miss is acknowledged and logged,
// never errored, so the engine does not retry forever.
type WebhookService struct {
	invoices      repository.InvoiceRepository
	notifications repository.NotificationRepository
	store         *storage.Store
}

func NewWebhookService(
	invoices repository.InvoiceRepository,
	notifications repository.NotificationRepository,
	store *storage.Store,
) *WebhookService {
	return &WebhookService{
		invoices:      invoices,
		notifications: notifications,
		store:         store,
	}
}

// InvoiceProcessed records the engine's completion callback. When the
// invoice row exists the user gets a notification.
func (s *WebhookService) InvoiceProcessed(ctx context.Context, orderID, status, message string) error {
	log.Info().
		Str("order_id", orderID).
		Str("status", status).
		Msg("workflow engine reported invoice processed")

	invoice, err := s.invoices.FindByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("find invoice for order %s: %w", orderID, err)
	}
	if invoice == nil {
		log.Warn().Str("order_id", orderID).Msg("processed callback for unknown invoice")
		return nil
	}

	titulo := "Factura procesada"
	if status == "error" {
		titulo = "Error al procesar factura"
	}
	if message == "" {
		message = fmt.Sprintf("Tu factura del pedido %s fue procesada.", orderID)
	}

	_, err = s.notifications.Create(ctx, model.CreateNotificationParams{
		UsuarioID: invoice.UsuarioID,
		FacturaID: &invoice.ID,
		Titulo:    titulo,
		Mensaje:   message,
	})
	if err != nil {
		return fmt.Errorf("create notification for order %s: %w", orderID, err)
	}
	return nil
}

// StoreDocument persists a PDF the engine pushed and returns its path.
func (s *WebhookService) StoreDocument(orderID, filename string, contentB64 string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(contentB64)
	if err != nil {
		return "", apperrors.InvalidDocument("El contenido del documento no es válido.").WithCause(err)
	}

	path, err := s.store.SaveReceived(filename, data)
	if err != nil {
		return "", err
	}

	log.Info().
		Str("order_id", orderID).
		Str("filename", filename).
		Int("bytes", len(data)).
		Msg("document received from workflow engine")
	return path, nil
}

// UpdateStatus applies a lifecycle change pushed by the engine.
func (s *WebhookService) UpdateStatus(ctx context.Context, orderID, estado, detalles string) error {
	log.Info().
		Str("order_id", orderID).
		Str("estado", estado).
		Str("detalles", detalles).
		Msg("workflow engine pushed status update")

	invoice, err := s.invoices.UpdateStatus(ctx, orderID, estado, detalles)
	if err != nil {
		return fmt.Errorf("update status for order %s: %w", orderID, err)
	}
	if invoice == nil {
		log.Warn().Str("order_id", orderID).Msg("status update for unknown invoice")
	}
	return nil
}
