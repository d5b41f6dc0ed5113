package domain

import (
	"context"

	"github.com/google/uuid"
)

type OrderUsecase interface {
	// BuildOrder turns a swap intent into a canonical order payload plus its
	// display echo. Each call produces a fresh validTo and fresh pricing; two
	// calls for the same intent are not interchangeable.
	BuildOrder(ctx context.Context, intent SwapIntent) (*Quote, error)

	// SubmitOrder forwards a signed order to the protocol's order book and
	// returns the protocol order id. The payload inside is trusted as-is;
	// re-deriving it here would invalidate the signature.
	SubmitOrder(ctx context.Context, signed *SignedOrder) (string, error)

	GetOrderByUID(ctx context.Context, uid uuid.UUID) (*OrderRecord, error)
	ListOrdersByWallet(ctx context.Context, wallet string) ([]OrderRecord, error)
	ExpireOpenOrders(ctx context.Context) (int64, error)
}

type OrderRepository interface {
	SaveOrder(ctx context.Context, rec *OrderRecord) (*OrderRecord, error)
	GetByUID(ctx context.Context, uid uuid.UUID) (*OrderRecord, error)
	ListByWallet(ctx context.Context, wallet string) ([]OrderRecord, error)
	// MarkExpired flips SUBMITTED records whose validTo is in the past.
	MarkExpired(ctx context.Context, now int64) (int64, error)
}
