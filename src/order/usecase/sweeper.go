package usecase

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/cowtrade/cowtrade/src/logger"
	"github.com/cowtrade/cowtrade/src/order/domain"
)

// NewExpirySweeper schedules the periodic pass that flips submitted orders
// past their validTo to EXPIRED. The pass is idempotent, so overlapping runs
// are harmless.
func NewExpirySweeper(c *cron.Cron, s domain.OrderUsecase, logg *logger.Logger) {
	c.AddFunc("@every 1m", func() {
		if _, err := s.ExpireOpenOrders(context.Background()); err != nil {
			// A failed sweep self-heals on the next tick.
			logg.Warnf("expiry sweep: %v", err)
		}
	})
}
