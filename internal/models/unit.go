package models

import (
	"time"
)

// Unit represents one apartment in the building.
// Nullable columns use pointers to distinguish between zero values and NULL.
// Lease dates are kept as the calendar-date strings the operators enter;
// they are descriptive fields, never compared or computed with.
type Unit struct {
	Code          string    `json:"code"`
	Floor         string    `json:"floor"`
	Number        string    `json:"number"`
	IsLeased      bool      `json:"is_leased"`
	OwnerID       string    `json:"owner_id"`
	TenantID      *string   `json:"tenant_id,omitempty"`
	LeaseStart    *string   `json:"lease_start,omitempty"`
	LeaseEnd      *string   `json:"lease_end,omitempty"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`
	RoomCount     int       `json:"room_count"`
	BathroomCount int       `json:"bathroom_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SeedUnits returns the fixed demo set of apartments used to bootstrap
// an empty building database.
func SeedUnits() []Unit {
	leased := func(tenant, start, end, notes string) (t, s, e, n *string) {
		return &tenant, &start, &end, &notes
	}

	a103Tenant, a103Start, a103End, a103Notes := leased("44444444-4", "2021-01-01", "2022-01-01", "Lease renewed")
	a203Tenant, a203Start, a203End, a203Notes := leased("88888888-8", "2021-01-01", "2022-01-01", "Lease renewed")

	return []Unit{
		{Code: "A101", Floor: "1", Number: "01", OwnerID: "11111111-1", Status: "available", RoomCount: 3, BathroomCount: 2},
		{Code: "A102", Floor: "1", Number: "02", OwnerID: "22222222-2", Status: "available", RoomCount: 2, BathroomCount: 1},
		{Code: "A103", Floor: "1", Number: "03", IsLeased: true, OwnerID: "33333333-3", Status: "leased", TenantID: a103Tenant, LeaseStart: a103Start, LeaseEnd: a103End, Notes: a103Notes, RoomCount: 1, BathroomCount: 1},
		{Code: "A201", Floor: "2", Number: "01", OwnerID: "55555555-5", Status: "available", RoomCount: 3, BathroomCount: 2},
		{Code: "A202", Floor: "2", Number: "02", OwnerID: "66666666-6", Status: "available", RoomCount: 2, BathroomCount: 1},
		{Code: "A203", Floor: "2", Number: "03", IsLeased: true, OwnerID: "77777777-7", Status: "leased", TenantID: a203Tenant, LeaseStart: a203Start, LeaseEnd: a203End, Notes: a203Notes, RoomCount: 1, BathroomCount: 1},
	}
}
