package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/dml-mx/facturacion-portal-go/internal/config"
	apperrors "github.com/dml-mx/facturacion-portal-go/internal/errors"
	"github.com/dml-mx/facturacion-portal-go/internal/middleware"
	"github.com/dml-mx/facturacion-portal-go/internal/service"
)

// BillingHandler serves the public invoicing flow: catalog data, order
// search, and the invoice submission itself.
type BillingHandler struct {
	orders       *service.OrderService
	pending      *service.PendingOrderStore
	submissions  *service.SubmissionService
	pendingTTL   time.Duration
	isProduction bool
}

func NewBillingHandler(
	orders *service.OrderService,
	pending *service.PendingOrderStore,
	submissions *service.SubmissionService,
	pendingTTL time.Duration,
	isProduction bool,
) *BillingHandler {
	return &BillingHandler{
		orders:       orders,
		pending:      pending,
		submissions:  submissions,
		pendingTTL:   pendingTTL,
		isProduction: isProduction,
	}
}

func (h *BillingHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/catalogs", h.Catalogs)
	r.Post("/orders/search", h.SearchOrder)
	r.Post("/invoices", h.SubmitInvoice)

	return r
}

// Catalogs returns the CFDI usage and payment method options the form
// renders.
func (h *BillingHandler) Catalogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"cfdiUsage":      config.CFDIUsageOptions,
		"paymentMethods": config.PaymentMethodOptions,
	})
}

// SearchOrder resolves the buyer's identifier, parks the order, and
// hands back a flow cookie for the submission step.
func (h *BillingHandler) SearchOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SearchID string `json:"searchId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "invalid json"))
		return
	}

	order, err := h.orders.Search(r.Context(), req.SearchID)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.pending.Put(r.Context(), order)
	if err != nil {
		log.Error().Err(err).Str("order_id", order.OrderID).Msg("failed to park pending order")
		writeError(w, apperrors.Internal("No se pudo procesar la búsqueda. Intenta nuevamente."))
		return
	}

	middleware.SetSessionCookie(w, middleware.FlowCookie, token, "/", h.pendingTTL, h.isProduction)
	writeJSON(w, http.StatusOK, map[string]any{
		"order": order,
	})
}

// SubmitInvoice takes the multipart invoice form and runs the full
// pipeline. The single file field is named csf_file.
func (h *BillingHandler) SubmitInvoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		writeError(w, apperrors.InvalidInput("form", "invalid multipart body"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("csf_file")
	if err != nil {
		writeError(w, apperrors.InvalidDocument("Debes adjuntar la Constancia de Situación Fiscal (PDF)."))
		return
	}
	defer file.Close()

	flowToken := ""
	if cookie, cErr := r.Cookie(middleware.FlowCookie); cErr == nil {
		flowToken = cookie.Value
	}

	result, err := h.submissions.Submit(r.Context(), service.SubmissionInput{
		FlowToken:     flowToken,
		Email:         r.FormValue("email"),
		Phone:         r.FormValue("phone"),
		CFDIUsage:     r.FormValue("cfdi_usage"),
		PaymentMethod: r.FormValue("payment_method"),
		MontoPagado:   r.FormValue("monto_pagado"),
		Document:      file,
		Filename:      header.Filename,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.ClearSessionCookie(w, middleware.FlowCookie, "/")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  result,
	})
}
