package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/dml-mx/facturacion-portal-go/internal/errors"
	"github.com/dml-mx/facturacion-portal-go/internal/model"
	"github.com/dml-mx/facturacion-portal-go/internal/repository"
)

type OrderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// Search resolves a buyer-supplied identifier to an order. The buyer
// may paste an order id, a pack id, or a payment id; the repository
// tries them in that precedence. A database failure is reported to the
// buyer the same way as a miss so the search box never leaks backend
// state.
func (s *OrderService) Search(ctx context.Context, searchID string) (*model.Order, error) {
	searchID = strings.TrimSpace(searchID)
	if searchID == "" {
		return nil, apperrors.MissingRequired("Por favor ingresa un ID de pedido o pago.")
	}

	order, err := s.orders.FindBySearchID(ctx, searchID)
	if err != nil {
		log.Error().Err(err).Str("search_id", searchID).Msg("order lookup failed")
		return nil, apperrors.NotFound("No se encontró ningún pedido con ese ID.")
	}
	if order == nil {
		return nil, apperrors.NotFound("No se encontró ningún pedido con ese ID.")
	}

	log.Info().
		Str("order_id", order.OrderID).
		Str("paid_amount", order.PaidAmount.String()).
		Msg("order found")
	return order, nil
}
