package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/dml-mx/facturacion-portal-go/internal/model"
)

type OrderRepository interface {
	// FindBySearchID looks up an order by order_id, pack_id or, failing
	// those, by the first payment id attached to the order.
	FindBySearchID(ctx context.Context, searchID string) (*model.Order, error)
}

type orderRepo struct {
	db sqlxDB
}

// sqlxDB is an interface satisfied by both *sqlx.DB and *sqlx.Tx
type sqlxDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) FindBySearchID(ctx context.Context, searchID string) (*model.Order, error) {
	var order model.Order
	err := r.db.GetContext(ctx, &order, `
		SELECT
			o.order_id,
			o.paid_amount,
			o.buyer_nickname,
			o.currency_id,
			o.shipping_id,
			s.receiver_id
		FROM public.orden_ml o
		LEFT JOIN public.shipment s ON o.shipping_id = s.id
		WHERE o.order_id = $1 OR o.pack_id = $1
	`, searchID)
	if err == nil {
		return &order, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	// Fallback: the buyer may only know the payment id from their receipt.
	err = r.db.GetContext(ctx, &order, `
		SELECT
			o.order_id,
			o.paid_amount,
			o.buyer_nickname,
			o.currency_id,
			o.shipping_id,
			s.receiver_id
		FROM public.orden_ml o
		LEFT JOIN public.shipment s ON o.shipping_id = s.id
		WHERE o.payments_0_id = $1
	`, searchID)
	return HandleNotFound(&order, err)
}
