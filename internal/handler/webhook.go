package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/dml-mx/facturacion-portal-go/internal/service"
)

// WebhookHandler receives callbacks from the workflow engine. Payload
// problems are 400; repo or storage failures are 500 so the engine can
// retry once the fault clears. Unknown orders are acknowledged at the
// service layer to keep the engine from retrying forever.
type WebhookHandler struct {
	webhooks *service.WebhookService
}

func NewWebhookHandler(webhooks *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

func (h *WebhookHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/factura-procesada", h.InvoiceProcessed)
	r.Post("/enviar-pdf", h.ReceiveDocument)
	r.Post("/actualizar-estado", h.UpdateStatus)

	return r
}

func (h *WebhookHandler) InvoiceProcessed(w http.ResponseWriter, r *http.Request) {
	var event InvoiceProcessedEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.OrderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
		return
	}

	if err := h.webhooks.InvoiceProcessed(r.Context(), event.OrderID, event.Status, event.Message); err != nil {
		log.Error().Err(err).Str("order_id", event.OrderID).Msg("invoice processed callback failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Webhook recibido",
	})
}

func (h *WebhookHandler) ReceiveDocument(w http.ResponseWriter, r *http.Request) {
	var event DocumentDeliveryEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.PDFContent == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
		return
	}

	filename := event.Filename
	if filename == "" {
		filename = "documento.pdf"
	}

	path, err := h.webhooks.StoreDocument(event.OrderID, filename, event.PDFContent)
	if err != nil {
		log.Error().Err(err).Str("order_id", event.OrderID).Msg("document delivery failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "PDF recibido y guardado",
		"path":    path,
	})
}

func (h *WebhookHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var event StatusUpdateEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.OrderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
		return
	}

	estado := event.Estado
	if estado == "" {
		estado = "unknown"
	}

	if err := h.webhooks.UpdateStatus(r.Context(), event.OrderID, estado, event.Detalles); err != nil {
		log.Error().Err(err).Str("order_id", event.OrderID).Msg("status update callback failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Estado actualizado",
	})
}
