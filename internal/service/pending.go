package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dml-mx/facturacion-portal-go/internal/model"
	"github.com/dml-mx/facturacion-portal-go/internal/redis"
	"github.com/dml-mx/facturacion-portal-go/internal/util"
)

// PendingOrderStore holds a searched order between the search step and
// the invoice submission. The token travels in a cookie; the order data
// itself stays server-side and expires on its own.
type PendingOrderStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPendingOrderStore(client *redis.Client, ttl time.Duration) *PendingOrderStore {
	return &PendingOrderStore{client: client, ttl: ttl}
}

// Put stores the order and returns a fresh flow token.
func (s *PendingOrderStore) Put(ctx context.Context, order *model.Order) (string, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("generate flow token: %w", err)
	}

	data, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("marshal pending order: %w", err)
	}

	if err := s.client.Set(ctx, redis.PendingOrderKey(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store pending order: %w", err)
	}
	return token, nil
}

// Get returns the pending order for a flow token, or nil when the token
// is unknown or expired.
func (s *PendingOrderStore) Get(ctx context.Context, token string) (*model.Order, error) {
	if token == "" {
		return nil, nil
	}

	data, err := s.client.Get(ctx, redis.PendingOrderKey(token)).Bytes()
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load pending order: %w", err)
	}

	var order model.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("unmarshal pending order: %w", err)
	}
	return &order, nil
}

// Clear drops the pending order after a successful submission.
func (s *PendingOrderStore) Clear(ctx context.Context, token string) {
	if token == "" {
		return
	}
	s.client.Del(ctx, redis.PendingOrderKey(token))
}
