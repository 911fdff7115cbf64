package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dml-mx/facturacion-portal-go/internal/model"
)

type InvoiceRepository interface {
	// ListByUserID returns every invoice the user owns, newest first.
	ListByUserID(ctx context.Context, userID int64) ([]model.Invoice, error)
	// FindByIDForUser scopes the lookup by owner; a foreign invoice id
	// behaves exactly like a missing one.
	FindByIDForUser(ctx context.Context, id, userID int64) (*model.Invoice, error)
	FindByOrderID(ctx context.Context, orderID string) (*model.Invoice, error)
	UpdateStatus(ctx context.Context, orderID, status, detalles string) (*model.Invoice, error)
	MonthlyStats(ctx context.Context, userID int64) ([]model.MonthlyInvoiceStats, error)
}

type invoiceRepo struct {
	db sqlxDB
}

func NewInvoiceRepository(db *sqlx.DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) ListByUserID(ctx context.Context, userID int64) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.SelectContext(ctx, &invoices, `
		SELECT * FROM facturas
		WHERE usuario_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepo) FindByIDForUser(ctx context.Context, id, userID int64) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.GetContext(ctx, &invoice, `
		SELECT * FROM facturas
		WHERE id = $1 AND usuario_id = $2
	`, id, userID)
	return HandleNotFound(&invoice, err)
}

func (r *invoiceRepo) FindByOrderID(ctx context.Context, orderID string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.GetContext(ctx, &invoice, `
		SELECT * FROM facturas
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, orderID)
	return HandleNotFound(&invoice, err)
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, orderID, status, detalles string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.GetContext(ctx, &invoice, `
		UPDATE facturas SET
			status = $2,
			observaciones_contabilidad = NULLIF($3, ''),
			updated_at = NOW()
		WHERE order_id = $1
		RETURNING *
	`, orderID, status, detalles)
	return HandleNotFound(&invoice, err)
}

func (r *invoiceRepo) MonthlyStats(ctx context.Context, userID int64) ([]model.MonthlyInvoiceStats, error) {
	var stats []model.MonthlyInvoiceStats
	err := r.db.SelectContext(ctx, &stats, `
		SELECT
			DATE_TRUNC('month', created_at) AS mes,
			COUNT(*) AS total,
			SUM(amount) AS monto_total,
			COUNT(CASE WHEN payment_status = 'paid' THEN 1 END) AS pagadas
		FROM facturas
		WHERE usuario_id = $1
		GROUP BY DATE_TRUNC('month', created_at)
		ORDER BY mes DESC
		LIMIT 12
	`, userID)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
