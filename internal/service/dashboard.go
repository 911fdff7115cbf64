package service

import (
	"context"

	"github.com/shopspring/decimal"

	apperrors "github.com/dml-mx/facturacion-portal-go/internal/errors"
	"github.com/dml-mx/facturacion-portal-go/internal/model"
	"github.com/dml-mx/facturacion-portal-go/internal/repository"
)

// DashboardStats are computed in memory from the user's invoice list;
// there is no separate aggregate query to drift out of sync.
type DashboardStats struct {
	TotalFacturas      int             `json:"totalFacturas"`
	MontoTotal         decimal.Decimal `json:"montoTotal"`
	FacturasPendientes int             `json:"facturasPendientes"`
	FacturasPagadas    int             `json:"facturasPagadas"`
}

type DashboardOverview struct {
	Facturas            []model.Invoice `json:"facturas"`
	Stats               DashboardStats  `json:"stats"`
	NotificacionesCount int             `json:"notificacionesCount"`
}

// DashboardService serves the authenticated portal views. Ownership is
// enforced at query time: every lookup is scoped by the user id, so a
// guessed invoice id of another user behaves like a missing one.
type DashboardService struct {
	invoices      repository.InvoiceRepository
	notifications repository.NotificationRepository
}

func NewDashboardService(
	invoices repository.InvoiceRepository,
	notifications repository.NotificationRepository,
) *DashboardService {
	return &DashboardService{invoices: invoices, notifications: notifications}
}

func (s *DashboardService) Overview(ctx context.Context, userID int64) (*DashboardOverview, error) {
	invoices, err := s.invoices.ListByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &DashboardOverview{
		Facturas:            invoices,
		Stats:               ComputeStats(invoices),
		NotificacionesCount: unread,
	}, nil
}

// ComputeStats folds an invoice list into the dashboard counters.
func ComputeStats(invoices []model.Invoice) DashboardStats {
	stats := DashboardStats{
		TotalFacturas: len(invoices),
		MontoTotal:    decimal.Zero,
	}
	for _, inv := range invoices {
		stats.MontoTotal = stats.MontoTotal.Add(inv.Amount)
		switch inv.PaymentStatus {
		case model.PaymentStatusPending:
			stats.FacturasPendientes++
		case model.PaymentStatusPaid:
			stats.FacturasPagadas++
		}
	}
	return stats
}

// InvoiceForUser fetches one invoice the user owns.
func (s *DashboardService) InvoiceForUser(ctx context.Context, invoiceID, userID int64) (*model.Invoice, error) {
	invoice, err := s.invoices.FindByIDForUser(ctx, invoiceID, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if invoice == nil {
		return nil, apperrors.NotFound("Factura no encontrada.")
	}
	return invoice, nil
}

func (s *DashboardService) MonthlyStats(ctx context.Context, userID int64) ([]model.MonthlyInvoiceStats, error) {
	stats, err := s.invoices.MonthlyStats(ctx, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return stats, nil
}

func (s *DashboardService) Notifications(ctx context.Context, userID int64, limit, offset int) ([]model.Notification, error) {
	notifications, err := s.notifications.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return notifications, nil
}

func (s *DashboardService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.Database(err)
	}
	return count, nil
}

// MarkNotificationRead flips the read flag. Marking someone else's
// notification reports not found.
func (s *DashboardService) MarkNotificationRead(ctx context.Context, notificationID, userID int64) error {
	updated, err := s.notifications.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return apperrors.Database(err)
	}
	if !updated {
		return apperrors.NotFound("Notificación no encontrada.")
	}
	return nil
}
