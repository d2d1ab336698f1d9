package models

import (
	"time"

	"github.com/google/uuid"
)

// ChargeKind classifies a charge.
type ChargeKind string

const (
	ChargeDues  ChargeKind = "DUES"
	ChargeFee   ChargeKind = "FEE"
	ChargeOther ChargeKind = "OTHER"
)

// Payment methods.
const (
	PaymentCash = "CASH"
	PaymentBank = "BANK"
	PaymentCard = "CARD"
)

// DuePeriod is the yearly dues amount configured per organization.
type DuePeriod struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Year           int       `json:"year"`
	Amount         float64   `json:"amount"`
	CreatedAt      time.Time `json:"created_at"`
}

// Charge is an amount owed by a member (dues accrual, event fee, etc.).
type Charge struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	MemberID       uuid.UUID  `json:"member_id"`
	Kind           ChargeKind `json:"kind"`
	Description    string     `json:"description,omitempty"`
	Amount         float64    `json:"amount"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Payment settles (part of) a charge.
type Payment struct {
	ID        uuid.UUID `json:"id"`
	ChargeID  uuid.UUID `json:"charge_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	PaidAt    time.Time `json:"paid_at"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberBalance summarizes a member's financial position.
type MemberBalance struct {
	MemberID     uuid.UUID `json:"member_id"`
	TotalCharged float64   `json:"total_charged"`
	TotalPaid    float64   `json:"total_paid"`
	Balance      float64   `json:"balance"`
}
