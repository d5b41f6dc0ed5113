package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cowtrade/cowtrade/src/logger"
	"github.com/cowtrade/cowtrade/src/order/domain"
)

var _ domain.OrderRepository = (*OrderRepo)(nil)

// ---------- ORDERS ----------
// gorm.Model includes:
// ID        uint `gorm:"primarykey"`
// CreatedAt time.Time
// UpdatedAt time.Time
// DeletedAt gorm.DeletedAt `gorm:"index"`
type Order struct {
	gorm.Model

	UID        uuid.UUID `json:"uid" gorm:"type:uuid;uniqueIndex"`
	Status     string    `json:"status" gorm:"index"`
	Wallet     string    `json:"wallet" gorm:"index"`
	ChainID    int64     `json:"chain_id"`
	SellToken  string    `json:"sell_token"`
	BuyToken   string    `json:"buy_token"`
	SellAmount string    `json:"sell_amount"`
	BuyAmount  string    `json:"buy_amount"`
	ValidTo    int64     `json:"valid_to" gorm:"index"`
	OrderID    string    `json:"order_id"`
	Signature  string    `json:"signature"`
	Reason     string    `json:"reason"`
}

// ---------- REPO ----------

type OrderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, log *logger.Logger) *OrderRepo {
	if err := db.AutoMigrate(&Order{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	return &OrderRepo{db: db, log: log}
}

// ---------- ORDER CRUD ----------

func (r *OrderRepo) SaveOrder(ctx context.Context, rec *domain.OrderRecord) (*domain.OrderRecord, error) {
	model := Order{
		UID:        rec.UID,
		Status:     string(rec.Status),
		Wallet:     rec.Wallet,
		ChainID:    rec.ChainID,
		SellToken:  rec.SellToken,
		BuyToken:   rec.BuyToken,
		SellAmount: rec.SellAmount,
		BuyAmount:  rec.BuyAmount,
		ValidTo:    rec.ValidTo,
		OrderID:    rec.OrderID,
		Signature:  rec.Signature,
		Reason:     rec.Reason,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return r.GetByUID(ctx, model.UID)
}

func (r *OrderRepo) GetByUID(ctx context.Context, uid uuid.UUID) (*domain.OrderRecord, error) {
	var o Order
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomainOrder(&o), nil
}

func (r *OrderRepo) ListByWallet(ctx context.Context, wallet string) ([]domain.OrderRecord, error) {
	var models []Order
	if err := r.db.WithContext(ctx).
		Where("wallet = ?", wallet).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return r.toDomainOrders(models), nil
}

func (r *OrderRepo) MarkExpired(ctx context.Context, now int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Order{}).
		Where("status = ? AND valid_to < ?", string(domain.OrderSubmitted), now).
		Updates(Order{Status: string(domain.OrderExpired)})
	return res.RowsAffected, res.Error
}

// ---------- HELPERS ----------

func (r *OrderRepo) toDomainOrder(o *Order) *domain.OrderRecord {
	return &domain.OrderRecord{
		ID:         o.ID,
		UID:        o.UID,
		Status:     domain.OrderStatus(o.Status),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Wallet:     o.Wallet,
		ChainID:    o.ChainID,
		SellToken:  o.SellToken,
		BuyToken:   o.BuyToken,
		SellAmount: o.SellAmount,
		BuyAmount:  o.BuyAmount,
		ValidTo:    o.ValidTo,
		OrderID:    o.OrderID,
		Signature:  o.Signature,
		Reason:     o.Reason,
	}
}

func (r *OrderRepo) toDomainOrders(os []Order) []domain.OrderRecord {
	var recs []domain.OrderRecord
	for _, o := range os {
		recs = append(recs, *r.toDomainOrder(&o))
	}
	return recs
}
