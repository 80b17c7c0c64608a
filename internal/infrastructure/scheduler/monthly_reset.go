package scheduler

import (
	"context"

	catalogapp "github.com/trycco/storefront/internal/application/catalog"
)

// MonthlyResetJob is the name of the job that zeroes monthly sales counters.
const MonthlyResetJob = "monthly-sales-reset"

// DefaultMonthlyResetSpec runs at midnight on the first day of every month.
const DefaultMonthlyResetSpec = "@monthly"

// MonthlySalesResetter zeroes every article's monthly sales counter.
type MonthlySalesResetter interface {
	ResetMonthlySales(ctx context.Context) (*catalogapp.MonthlyResetResponse, error)
}

// RegisterMonthlyReset schedules resetter on spec, or on the default spec when empty.
func RegisterMonthlyReset(s *Scheduler, spec string, resetter MonthlySalesResetter) error {
	if spec == "" {
		spec = DefaultMonthlyResetSpec
	}
	return s.Register(MonthlyResetJob, spec, func(ctx context.Context) error {
		_, err := resetter.ResetMonthlySales(ctx)
		return err
	})
}
