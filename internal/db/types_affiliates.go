package db

import (
	"time"

	"github.com/google/uuid"
)

// Commission lifecycle statuses. Transitions past "pending" are driven by the
// external billing reconciliation process.
const (
	CommissionPending   = "pending"
	CommissionValidated = "validated"
	CommissionPaid      = "paid"
)

// Affiliate represents a partner account enrolled in the referral program
type Affiliate struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Code           string    `json:"code"`
	CommissionRate int       `json:"commission_rate"` // percent
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// AffiliateClick is one recorded referral visit
type AffiliateClick struct {
	ID          uuid.UUID `json:"id"`
	AffiliateID uuid.UUID `json:"affiliate_id"`
	VisitorID   string    `json:"visitor_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// AffiliateReferral remembers which code a visitor arrived with, for the
// attribution window. ConvertedAt is set when the visitor purchases.
type AffiliateReferral struct {
	ID             uuid.UUID  `json:"id"`
	AffiliateID    uuid.UUID  `json:"affiliate_id"`
	VisitorID      string     `json:"visitor_id"`
	ReferredUserID *uuid.UUID `json:"referred_user_id,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
	ConvertedAt    *time.Time `json:"converted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AffiliateCommission is a payout owed for a converted referral
type AffiliateCommission struct {
	ID          uuid.UUID `json:"id"`
	AffiliateID uuid.UUID `json:"affiliate_id"`
	ReferralID  uuid.UUID `json:"referral_id"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
