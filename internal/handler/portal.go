package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dml-mx/facturacion-portal-go/internal/audit"
	"github.com/dml-mx/facturacion-portal-go/internal/config"
	apperrors "github.com/dml-mx/facturacion-portal-go/internal/errors"
	"github.com/dml-mx/facturacion-portal-go/internal/middleware"
	"github.com/dml-mx/facturacion-portal-go/internal/model"
	"github.com/dml-mx/facturacion-portal-go/internal/service"
)

// PortalHandler serves the authenticated customer portal: login,
// dashboard, invoice detail and downloads, notifications, and profile.
type PortalHandler struct {
	auth         *service.AuthService
	dashboard    *service.DashboardService
	profile      *service.ProfileService
	isProduction bool
}

func NewPortalHandler(
	auth *service.AuthService,
	dashboard *service.DashboardService,
	profile *service.ProfileService,
	isProduction bool,
) *PortalHandler {
	return &PortalHandler{
		auth:         auth,
		dashboard:    dashboard,
		profile:      profile,
		isProduction: isProduction,
	}
}

// AuthenticatedRoutes are the routes behind the session middleware.
func (h *PortalHandler) AuthenticatedRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/facturas", h.ListInvoices)
	r.Get("/facturas/stats", h.InvoiceStats)
	r.Get("/facturas/{facturaID}", h.InvoiceDetail)
	r.Get("/facturas/{facturaID}/pdf", h.DownloadPDF)
	r.Get("/facturas/{facturaID}/xml", h.DownloadXML)
	r.Get("/notificaciones", h.ListNotifications)
	r.Get("/notificaciones/count", h.NotificationCount)
	r.Post("/notificaciones/{notifID}/leida", h.MarkNotificationRead)
	r.Get("/perfil", h.Profile)
	r.Put("/perfil", h.UpdateProfile)

	return r
}

func (h *PortalHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email"`
		ReceiverID string `json:"receiverId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "invalid json"))
		return
	}

	user, token, err := h.auth.Login(r.Context(), service.LoginRequest{
		Email:      req.Email,
		ReceiverID: req.ReceiverID,
		IP:         audit.GetClientIP(r),
		UserAgent:  r.UserAgent(),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.SetSessionCookie(w, middleware.PortalSessionCookie, token, "/portal", config.SessionTTL, h.isProduction)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

func (h *PortalHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())
	if cookie, err := r.Cookie(middleware.PortalSessionCookie); err == nil && cookie.Value != "" {
		h.auth.Logout(r.Context(), cookie.Value, user, audit.GetClientIP(r), r.UserAgent())
	}

	middleware.ClearSessionCookie(w, middleware.PortalSessionCookie, "/portal")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *PortalHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":           user.ID,
			"email":        user.Email,
			"nombre":       user.Nombre,
			"ultimoAcceso": formatTime(user.UltimoAcceso),
		},
	})
}

func (h *PortalHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())

	overview, err := h.dashboard.Overview(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *PortalHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())

	overview, err := h.dashboard.Overview(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"facturas": overview.Facturas,
	})
}

func (h *PortalHandler) InvoiceStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())

	stats, err := h.dashboard.MonthlyStats(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    stats,
	})
}

func (h *PortalHandler) InvoiceDetail(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())
	invoice := h.ownedInvoice(w, r, user)
	if invoice == nil {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"factura": invoice,
		"pdf":     invoice.HasPDF(),
		"xml":     invoice.HasXML(),
	})
}

func (h *PortalHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())
	invoice := h.ownedInvoice(w, r, user)
	if invoice == nil {
		return
	}

	if !invoice.HasPDF() {
		writeError(w, apperrors.NotFound("PDF no disponible aún."))
		return
	}
	h.serveDocument(w, r, *invoice.PDFURL, fmt.Sprintf("factura_%s.pdf", invoice.OrderID), "application/pdf")
}

func (h *PortalHandler) DownloadXML(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())
	invoice := h.ownedInvoice(w, r, user)
	if invoice == nil {
		return
	}

	if !invoice.HasXML() {
		writeError(w, apperrors.NotFound("XML no disponible aún."))
		return
	}
	h.serveDocument(w, r, *invoice.XMLURL, fmt.Sprintf("factura_%s.xml", invoice.OrderID), "application/xml")
}

func (h *PortalHandler) serveDocument(w http.ResponseWriter, r *http.Request, path, downloadName, contentType string) {
	if _, err := os.Stat(path); err != nil {
		writeError(w, apperrors.NotFound("Archivo no encontrado."))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, downloadName))
	http.ServeFile(w, r, path)
}

func (h *PortalHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())
	page := ParsePagination(r)

	notifications, err := h.dashboard.Notifications(r.Context(), user.ID, page.Limit, page.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notificaciones": notifications,
	})
}

func (h *PortalHandler) NotificationCount(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())

	count, err := h.dashboard.UnreadCount(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   count,
	})
}

func (h *PortalHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())

	notifID, err := strconv.ParseInt(chi.URLParam(r, "notifID"), 10, 64)
	if err != nil {
		writeError(w, apperrors.InvalidInput("notifID", "must be numeric"))
		return
	}

	if err := h.dashboard.MarkNotificationRead(r.Context(), notifID, user.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *PortalHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())

	view, err := h.profile.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *PortalHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetPortalUser(r.Context())

	var req struct {
		Nombre          string `json:"nombre"`
		Telefono        string `json:"telefono"`
		RFC             string `json:"rfc"`
		RazonSocial     string `json:"razonSocial"`
		DomicilioFiscal string `json:"domicilioFiscal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "invalid json"))
		return
	}

	updated, err := h.profile.Update(r.Context(), user.ID, model.UpdateProfileParams{
		Nombre:          req.Nombre,
		Telefono:        req.Telefono,
		RFC:             req.RFC,
		RazonSocial:     req.RazonSocial,
		DomicilioFiscal: req.DomicilioFiscal,
	}, audit.GetClientIP(r), r.UserAgent())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"usuario": updated,
	})
}

// ownedInvoice resolves {facturaID} scoped to the session user, writing
// the error response on failure.
func (h *PortalHandler) ownedInvoice(w http.ResponseWriter, r *http.Request, user *model.PortalUser) *model.Invoice {
	facturaID, err := strconv.ParseInt(chi.URLParam(r, "facturaID"), 10, 64)
	if err != nil {
		writeError(w, apperrors.InvalidInput("facturaID", "must be numeric"))
		return nil
	}

	invoice, err := h.dashboard.InvoiceForUser(r.Context(), facturaID, user.ID)
	if err != nil {
		writeError(w, err)
		return nil
	}
	return invoice
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
