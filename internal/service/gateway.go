package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/dml-mx/facturacion-portal-go/internal/errors"
)

// PortalAccess is the credential block the engine returns when it
// provisions a portal account for a first-time buyer.
type PortalAccess struct {
	URL      string `json:"url"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Mensaje  string `json:"mensaje"`
}

// EngineResponse is the workflow engine's verdict on a submission.
type EngineResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	InvoiceID    string        `json:"invoice_id"`
	PortalAccess *PortalAccess `json:"portal_access,omitempty"`
}

// WorkflowGateway forwards invoice requests to the workflow engine. The
// engine owns eligibility rules, ERP integration, and email delivery;
// the gateway's job is a clean five-way classification of what came
// back so the buyer always gets a message that matches what actually
// went wrong.
// maxErrorBodyBytes bounds how much of an engine error body is logged.
const maxErrorBodyBytes = 4 << 10

type WorkflowGateway struct {
	client     *http.Client
	webhookURL string
}

func NewWorkflowGateway(webhookURL string, timeout time.Duration) *WorkflowGateway {
	return &WorkflowGateway{
		client:     &http.Client{Timeout: timeout},
		webhookURL: webhookURL,
	}
}

// Send posts the request and classifies the outcome. A non-nil
// EngineResponse is only returned on engine success.
func (g *WorkflowGateway) Send(ctx context.Context, req *InvoiceRequest) (*EngineResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal invoice request: %w", err)
	}

	log.Info().
		Str("order_id", req.OrderID).
		Str("email", req.Email).
		Int("payload_bytes", len(body)).
		Msg("sending invoice request to workflow engine")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build engine request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The raw body stays in the logs for operators; the buyer only
		// ever sees the status code.
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		log.Error().
			Int("status", resp.StatusCode).
			Str("order_id", req.OrderID).
			Str("body", string(errBody)).
			Msg("workflow engine returned error status")
		return nil, apperrors.GatewayStatus(resp.StatusCode)
	}

	var engineResp EngineResponse
	if err := json.NewDecoder(resp.Body).Decode(&engineResp); err != nil {
		log.Error().Err(err).Str("order_id", req.OrderID).Msg("workflow engine returned invalid json")
		return nil, apperrors.GatewayResponse()
	}

	if !engineResp.Success {
		log.Warn().
			Str("order_id", req.OrderID).
			Str("engine_message", engineResp.Message).
			Msg("workflow engine rejected submission")
		return nil, apperrors.EngineRejected(engineResp.Message)
	}

	log.Info().
		Str("order_id", req.OrderID).
		Str("invoice_id", engineResp.InvoiceID).
		Msg("workflow engine accepted submission")
	return &engineResp, nil
}

func classifyTransportError(err error) *apperrors.AppError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Error().Err(err).Msg("workflow engine timed out")
		return apperrors.GatewayTimeout()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		log.Error().Err(err).Msg("workflow engine timed out")
		return apperrors.GatewayTimeout()
	}
	log.Error().Err(err).Msg("workflow engine unreachable")
	return apperrors.GatewayUnreachable()
}
