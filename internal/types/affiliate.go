package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// TrackClickRequest registers a referral click for the visitor carrying the
// code. The visitor ID is an opaque browser signal, not a user ID.
type TrackClickRequest struct {
	Code      string `json:"code" validate:"required,min=4,max=32"`
	VisitorID string `json:"visitor_id" validate:"required,min=8,max=128"`
}

// ConversionRequest is posted by the billing reconciliation process when a
// referred visitor completes a paid subscription.
type ConversionRequest struct {
	VisitorID   string    `json:"visitor_id" validate:"required,min=8,max=128"`
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	AmountCents int64     `json:"amount_cents" validate:"required,gt=0"`
}

// UpdateCommissionStatusRequest advances a commission along the payout
// lifecycle. Like ConversionRequest it comes from billing reconciliation.
type UpdateCommissionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=validated paid"`
}

// AffiliateStats is the dashboard summary for an affiliate.
type AffiliateStats struct {
	Code           string    `json:"code"`
	CommissionRate int       `json:"commission_rate"`
	Active         bool      `json:"active"`
	Clicks         int64     `json:"clicks"`
	Referrals      int64     `json:"referrals"`
	Conversions    int64     `json:"conversions"`
	PendingCents   int64     `json:"pending_cents"`
	ValidatedCents int64     `json:"validated_cents"`
	PaidCents      int64     `json:"paid_cents"`
	MemberSince    time.Time `json:"member_since"`
}

// Validate validates the TrackClickRequest using the validator.
func (r *TrackClickRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the ConversionRequest using the validator.
func (r *ConversionRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpdateCommissionStatusRequest using the validator.
func (r *UpdateCommissionStatusRequest) Validate() error {
	return validator.New().Struct(r)
}
