package subscription

import (
	"time"

	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
)

// lastDayOfMonth returns the number of days in the given month.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLastDayOfMonth reports whether t falls on the final day of its month.
func IsLastDayOfMonth(t time.Time) bool {
	return t.Day() == lastDayOfMonth(t.Year(), t.Month())
}

// AddMonths advances t by n calendar months with billing-friendly overflow
// handling. A date on the last day of its month lands on the last day of the
// target month, and a day number past the end of the target month is clamped
// to it. Jan 31 + 1 month is Feb 29 in a leap year, Feb 28 otherwise.
func AddMonths(t time.Time, n int) time.Time {
	year := t.Year()
	month := int(t.Month()) + n
	// normalize to [1, 12]
	year += (month - 1) / 12
	month = (month-1)%12 + 1
	if month < 1 {
		month += 12
		year--
	}

	day := t.Day()
	last := lastDayOfMonth(year, time.Month(month))
	if IsLastDayOfMonth(t) || day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, t.Location())
}

// NextPaymentDate computes the payment date one billing cycle after from.
func NextPaymentDate(frequency string, from time.Time) (time.Time, error) {
	switch frequency {
	case FrequencyMonthly:
		return AddMonths(from, 1), nil
	case FrequencyQuarterly:
		return AddMonths(from, 3), nil
	case FrequencyYearly:
		return AddMonths(from, 12), nil
	default:
		return time.Time{}, errors.UnknownPaymentFrequency(frequency)
	}
}

// MonthlyCost converts a price at the given billing frequency to its
// per-month equivalent.
func MonthlyCost(price float64, frequency string) (float64, error) {
	switch frequency {
	case FrequencyMonthly:
		return price, nil
	case FrequencyQuarterly:
		return price / 3, nil
	case FrequencyYearly:
		return price / 12, nil
	default:
		return 0, errors.UnknownPaymentFrequency(frequency)
	}
}

// YearlyCost converts a price at the given billing frequency to its
// per-year equivalent.
func YearlyCost(price float64, frequency string) (float64, error) {
	switch frequency {
	case FrequencyMonthly:
		return price * 12, nil
	case FrequencyQuarterly:
		return price * 4, nil
	case FrequencyYearly:
		return price, nil
	default:
		return 0, errors.UnknownPaymentFrequency(frequency)
	}
}

// Roll advances the subscription's next payment date by one billing cycle.
func (s *Subscription) Roll() error {
	next, err := NextPaymentDate(s.PaymentFrequency, s.NextPaymentDate)
	if err != nil {
		return err
	}
	s.NextPaymentDate = next
	return nil
}

// MonthlyCost returns the subscription's per-month cost.
func (s *Subscription) MonthlyCost() (float64, error) {
	return MonthlyCost(s.Price, s.PaymentFrequency)
}

// YearlyCost returns the subscription's per-year cost.
func (s *Subscription) YearlyCost() (float64, error) {
	return YearlyCost(s.Price, s.PaymentFrequency)
}
