package models

import (
	"time"
)

// DueDay is the calendar day of the month on which a charge falls due.
// Paying on the due day itself is on time; the 16th onward is late.
const DueDay = 15

// Charge represents one monthly common-expense line item for one unit.
// Payer fields are populated only at settlement time.
type Charge struct {
	ID         int64      `json:"id"`
	Month      int        `json:"month"`
	Year       int        `json:"year"`
	UnitCode   string     `json:"unit_code"`
	AmountPaid float64    `json:"amount_paid"`
	PaidDate   *time.Time `json:"paid_date,omitempty"`
	IsLate     bool       `json:"is_late"`
	PayerTaxID *string    `json:"payer_tax_id,omitempty"`
	PayerName  *string    `json:"payer_name,omitempty"`
	PayerPhone *string    `json:"payer_phone,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Settled reports whether the charge has a recorded payment.
func (c *Charge) Settled() bool {
	return c.PaidDate != nil
}

// DueDate returns the due date for a charge period: the 15th of the
// given month, at midnight UTC.
func DueDate(year, month int) time.Time {
	return time.Date(year, time.Month(month), DueDay, 0, 0, 0, 0, time.UTC)
}

// IsLatePayment reports whether paying on paidDate settles the
// (year, month) charge late. The comparison is strict: paying exactly
// on the due date is on time.
func IsLatePayment(year, month int, paidDate time.Time) bool {
	return paidDate.After(DueDate(year, month))
}
