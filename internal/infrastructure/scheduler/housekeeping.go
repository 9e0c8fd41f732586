package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrUnknownTask is returned by RunNow for a task name that was never registered
var ErrUnknownTask = errors.New("unknown housekeeping task")

const (
	TaskStaleCarts  = "stale_carts"
	TaskEmptyOrders = "empty_orders"
)

// CartSweeper removes carts that have not been touched within the window
type CartSweeper interface {
	CleanupStale(ctx context.Context, staleAfter time.Duration) (int64, error)
}

// OrderPurger removes orders that carry no line items
type OrderPurger interface {
	DeleteEmpty(ctx context.Context) (int64, error)
}

// HousekeepingConfig controls the marketplace maintenance schedule.
// A non-positive interval disables the corresponding task.
type HousekeepingConfig struct {
	CartStaleAfter     time.Duration
	CartSweepInterval  time.Duration
	OrderPurgeInterval time.Duration
}

// NewHousekeeping builds the scheduler for marketplace maintenance:
// sweeping abandoned carts and purging orders left without items.
func NewHousekeeping(logger *zap.Logger, carts CartSweeper, orders OrderPurger, cfg HousekeepingConfig) *Scheduler {
	tasks := []Task{
		{
			Name:     TaskStaleCarts,
			Interval: cfg.CartSweepInterval,
			Run: func(ctx context.Context) (int64, error) {
				return carts.CleanupStale(ctx, cfg.CartStaleAfter)
			},
		},
		{
			Name:     TaskEmptyOrders,
			Interval: cfg.OrderPurgeInterval,
			Run: func(ctx context.Context) (int64, error) {
				return orders.DeleteEmpty(ctx)
			},
		},
	}
	return New(logger, tasks...)
}
