package billing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

// BytesPerGiB is the binary gigabyte used for pricing.
const BytesPerGiB = 1 << 30

var (
	// ErrInvalidRates is returned for negative, NaN or infinite storage rates.
	ErrInvalidRates = errors.New("storage rates must be finite and non-negative")
	// ErrInvalidDays is returned when the number of days in the month is not positive.
	ErrInvalidDays = errors.New("days in month must be positive")
)

// DaysInMonth returns the number of calendar days in the month of t.
//
// The billing job takes t from the wall clock, so costs are prorated by the
// month the job runs in rather than the month being billed. That only
// matches when the job runs daily within the month it bills for.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// ValidateRates checks that both monthly rates are usable.
func ValidateRates(rates entity.StorageRates) error {
	for _, r := range []float64{rates.LivePerGiBMonth, rates.ArchivedPerGiBMonth} {
		if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
			return fmt.Errorf("%w: got live=%v archived=%v", ErrInvalidRates, rates.LivePerGiBMonth, rates.ArchivedPerGiBMonth)
		}
	}
	return nil
}

// Calculator converts byte sizes into one day's accrued storage cost.
type Calculator struct {
	rates entity.StorageRates
	days  int
}

// NewCalculator creates a calculator for the given monthly rates and month length.
func NewCalculator(rates entity.StorageRates, daysInMonth int) (*Calculator, error) {
	if err := ValidateRates(rates); err != nil {
		return nil, err
	}
	if daysInMonth <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDays, daysInMonth)
	}
	return &Calculator{rates: rates, days: daysInMonth}, nil
}

// MonthlyRate returns the per GiB-month price of a billed state.
func (c *Calculator) MonthlyRate(state entity.ArchivalState) float64 {
	if state == entity.StateArchived {
		return c.rates.ArchivedPerGiBMonth
	}
	return c.rates.LivePerGiBMonth
}

// Cost returns (size / 2^30) * monthly_rate[state] / days_in_month. No rounding.
func (c *Calculator) Cost(size int64, state entity.ArchivalState) float64 {
	if size <= 0 {
		return 0
	}
	return float64(size) / BytesPerGiB * c.MonthlyRate(state) / float64(c.days)
}

// Apply returns a copy of rows with Cost filled in.
func (c *Calculator) Apply(rows []entity.CostRow) []entity.CostRow {
	out := make([]entity.CostRow, len(rows))
	for i, r := range rows {
		r.Cost = c.Cost(r.Size, r.State)
		out[i] = r
	}
	return out
}
