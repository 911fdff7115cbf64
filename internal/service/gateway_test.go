package service

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dml-mx/facturacion-portal-go/internal/errors"
)

func sampleRequest() *InvoiceRequest {
	return &InvoiceRequest{
		OrderID:     "2000001",
		PaidAmount:  1500.50,
		CurrencyID:  "MXN",
		Email:       "user@example.com",
		MontoPagado: 1500.50,
	}
}

func TestGatewaySend(t *testing.T) {
	ctx := context.Background()

	t.Run("engine success returns the response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Write([]byte(`{"success":true,"message":"Factura creada","invoice_id":"INV/2024/001"}`))
		}))
		defer srv.Close()

		resp, err := NewWorkflowGateway(srv.URL, time.Second).Send(ctx, sampleRequest())
		require.NoError(t, err)
		assert.Equal(t, "Factura creada", resp.Message)
		assert.Equal(t, "INV/2024/001", resp.InvoiceID)
	})

	t.Run("engine rejection surfaces the engine message verbatim", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"message":"Pedido no elegible para facturación"}`))
		}))
		defer srv.Close()

		_, err := NewWorkflowGateway(srv.URL, time.Second).Send(ctx, sampleRequest())
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeEngineRejected, appErr.Code)
		assert.Equal(t, "Pedido no elegible para facturación", appErr.Message)
	})

	t.Run("rejection without message gets the default", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false}`))
		}))
		defer srv.Close()

		_, err := NewWorkflowGateway(srv.URL, time.Second).Send(ctx, sampleRequest())
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "Error al procesar la factura", appErr.Message)
	})

	t.Run("non-200 status is a gateway status error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewWorkflowGateway(srv.URL, time.Second).Send(ctx, sampleRequest())
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeGatewayResponse, appErr.Code)
		assert.Equal(t, "Error del servidor: 502", appErr.Message)
	})

	t.Run("non-200 body is logged but never surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":"workflow node credential expired"}`))
		}))
		defer srv.Close()

		var logs bytes.Buffer
		prev := log.Logger
		log.Logger = zerolog.New(&logs)
		defer func() { log.Logger = prev }()

		_, err := NewWorkflowGateway(srv.URL, time.Second).Send(ctx, sampleRequest())
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.NotContains(t, appErr.Message, "credential expired")
		assert.Contains(t, logs.String(), "workflow node credential expired")
	})

	t.Run("malformed json is a gateway response error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json at all`))
		}))
		defer srv.Close()

		_, err := NewWorkflowGateway(srv.URL, time.Second).Send(ctx, sampleRequest())
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeGatewayResponse, appErr.Code)
		assert.Equal(t, "Respuesta inválida del servidor", appErr.Message)
	})

	t.Run("slow engine is a timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		_, err := NewWorkflowGateway(srv.URL, 20*time.Millisecond).Send(ctx, sampleRequest())
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeGatewayTimeout, appErr.Code)
		assert.Equal(t, "El servidor tardó demasiado en responder", appErr.Message)
	})

	t.Run("unreachable engine is a connection error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing listens here anymore

		_, err := NewWorkflowGateway(srv.URL, time.Second).Send(ctx, sampleRequest())
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeGatewayUnreachable, appErr.Code)
		assert.Equal(t, "No se pudo conectar con el servicio de facturación", appErr.Message)
	})

	t.Run("each failure mode has a distinct user message", func(t *testing.T) {
		messages := map[string]bool{
			apperrors.GatewayTimeout().Message:     true,
			apperrors.GatewayUnreachable().Message: true,
			apperrors.GatewayResponse().Message:    true,
			apperrors.GatewayStatus(500).Message:   true,
			apperrors.EngineRejected("").Message:   true,
		}
		assert.Len(t, messages, 5)
	})
}
