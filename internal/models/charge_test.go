package models

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDueDate(t *testing.T) {
	due := DueDate(2024, 3)
	if due != date(2024, time.March, 15) {
		t.Errorf("Expected 2024-03-15, got %s", due.Format("2006-01-02"))
	}
}

func TestIsLatePayment(t *testing.T) {
	tests := []struct {
		name     string
		paidDate time.Time
		want     bool
	}{
		{
			name:     "paid well before the due date",
			paidDate: date(2024, time.March, 1),
			want:     false,
		},
		{
			name:     "paid exactly on the 15th",
			paidDate: date(2024, time.March, 15),
			want:     false,
		},
		{
			name:     "paid on the 16th",
			paidDate: date(2024, time.March, 16),
			want:     true,
		},
		{
			name:     "paid months later",
			paidDate: date(2024, time.June, 2),
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsLatePayment(2024, 3, tt.paidDate)
			if got != tt.want {
				t.Errorf("IsLatePayment(2024, 3, %s) = %v, want %v",
					tt.paidDate.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestChargeSettled(t *testing.T) {
	c := &Charge{ID: 1, Month: 3, Year: 2024, UnitCode: "A101"}
	if c.Settled() {
		t.Error("Expected unsettled charge without paid date")
	}

	paid := date(2024, time.March, 10)
	c.PaidDate = &paid
	if !c.Settled() {
		t.Error("Expected settled charge after paid date is set")
	}
}

func TestSeedUnits(t *testing.T) {
	units := SeedUnits()
	if len(units) != 6 {
		t.Fatalf("Expected 6 seed units, got %d", len(units))
	}

	codes := make(map[string]bool)
	for _, u := range units {
		if codes[u.Code] {
			t.Errorf("Duplicate seed unit code %s", u.Code)
		}
		codes[u.Code] = true

		if u.RoomCount < 1 || u.BathroomCount < 1 {
			t.Errorf("Unit %s has non-positive room or bathroom count", u.Code)
		}
		if u.IsLeased && u.TenantID == nil {
			t.Errorf("Leased unit %s has no tenant", u.Code)
		}
	}
}
