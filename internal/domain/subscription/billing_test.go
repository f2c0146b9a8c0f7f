package subscription

import (
	"testing"
	"time"

	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{
			name: "mid-month unchanged day",
			from: date(2024, time.January, 15),
			n:    1,
			want: date(2024, time.February, 15),
		},
		{
			name: "jan 31 to leap february",
			from: date(2024, time.January, 31),
			n:    1,
			want: date(2024, time.February, 29),
		},
		{
			name: "jan 31 to non-leap february",
			from: date(2023, time.January, 31),
			n:    1,
			want: date(2023, time.February, 28),
		},
		{
			name: "may 31 clamps to june 30",
			from: date(2024, time.May, 31),
			n:    1,
			want: date(2024, time.June, 30),
		},
		{
			name: "last day snaps to last day of longer month",
			from: date(2024, time.April, 30),
			n:    1,
			want: date(2024, time.May, 31),
		},
		{
			name: "feb 29 plus a year lands on feb 28",
			from: date(2024, time.February, 29),
			n:    12,
			want: date(2025, time.February, 28),
		},
		{
			name: "quarter across year boundary",
			from: date(2024, time.November, 15),
			n:    3,
			want: date(2025, time.February, 15),
		},
		{
			name: "december to january",
			from: date(2024, time.December, 31),
			n:    1,
			want: date(2025, time.January, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddMonths(tt.from, tt.n); !got.Equal(tt.want) {
				t.Errorf("AddMonths(%s, %d) = %s, want %s",
					tt.from.Format(DateLayout), tt.n,
					got.Format(DateLayout), tt.want.Format(DateLayout))
			}
		})
	}
}

func TestAddMonths_LastDayPreservedOverChain(t *testing.T) {
	// Rolling month by month from a last-day date should stick to the last
	// day instead of degrading to the shortest month's length.
	d := date(2024, time.March, 31)
	wants := []time.Time{
		date(2024, time.April, 30),
		date(2024, time.May, 31),
		date(2024, time.June, 30),
		date(2024, time.July, 31),
	}
	for _, want := range wants {
		d = AddMonths(d, 1)
		if !d.Equal(want) {
			t.Fatalf("chain rolled to %s, want %s", d.Format(DateLayout), want.Format(DateLayout))
		}
	}
}

func TestNextPaymentDate(t *testing.T) {
	from := date(2024, time.January, 31)

	tests := []struct {
		name      string
		frequency string
		want      time.Time
		wantErr   bool
	}{
		{
			name:      "monthly",
			frequency: FrequencyMonthly,
			want:      date(2024, time.February, 29),
		},
		{
			name:      "quarterly",
			frequency: FrequencyQuarterly,
			want:      date(2024, time.April, 30),
		},
		{
			name:      "yearly",
			frequency: FrequencyYearly,
			want:      date(2025, time.January, 31),
		},
		{
			name:      "unknown frequency",
			frequency: "weekly",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextPaymentDate(tt.frequency, from)
			if (err != nil) != tt.wantErr {
				t.Errorf("NextPaymentDate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeUnknownPaymentFrequency) {
					t.Errorf("error code = %v, want %v", err, errors.ErrCodeUnknownPaymentFrequency)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextPaymentDate() = %s, want %s",
					got.Format(DateLayout), tt.want.Format(DateLayout))
			}
		})
	}
}

func TestCosts(t *testing.T) {
	tests := []struct {
		name        string
		price       float64
		frequency   string
		wantMonthly float64
		wantYearly  float64
		wantErr     bool
	}{
		{
			name:        "monthly",
			price:       10,
			frequency:   FrequencyMonthly,
			wantMonthly: 10,
			wantYearly:  120,
		},
		{
			name:        "quarterly",
			price:       30,
			frequency:   FrequencyQuarterly,
			wantMonthly: 10,
			wantYearly:  120,
		},
		{
			name:        "yearly",
			price:       120,
			frequency:   FrequencyYearly,
			wantMonthly: 10,
			wantYearly:  120,
		},
		{
			name:      "unknown frequency",
			price:     10,
			frequency: "weekly",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monthly, err := MonthlyCost(tt.price, tt.frequency)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MonthlyCost() error = %v, wantErr %v", err, tt.wantErr)
			}
			yearly, err := YearlyCost(tt.price, tt.frequency)
			if (err != nil) != tt.wantErr {
				t.Fatalf("YearlyCost() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if monthly != tt.wantMonthly {
				t.Errorf("MonthlyCost() = %v, want %v", monthly, tt.wantMonthly)
			}
			if yearly != tt.wantYearly {
				t.Errorf("YearlyCost() = %v, want %v", yearly, tt.wantYearly)
			}
		})
	}
}

func TestSubscription_Roll(t *testing.T) {
	sub := &Subscription{
		PaymentFrequency: FrequencyMonthly,
		NextPaymentDate:  date(2024, time.January, 31),
	}
	if err := sub.Roll(); err != nil {
		t.Fatalf("Roll() returned %v", err)
	}
	if want := date(2024, time.February, 29); !sub.NextPaymentDate.Equal(want) {
		t.Errorf("Roll() advanced to %s, want %s",
			sub.NextPaymentDate.Format(DateLayout), want.Format(DateLayout))
	}

	sub.PaymentFrequency = "weekly"
	if err := sub.Roll(); err == nil {
		t.Error("Roll() with unknown frequency returned nil, want error")
	}
}
