// Package affiliate implements referral attribution and commission tracking.
// Everything here is best-effort: an error in this package is logged and
// absorbed so it can never fail the page or checkout flow that triggered it.
package affiliate

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/julienlaffont/cvbooster/internal/db"
)

// DefaultAttributionWindow is how long a referral code sticks to a visitor.
const DefaultAttributionWindow = 24 * time.Hour

// Store is the persistence surface the tracker needs. *db.DB satisfies it.
type Store interface {
	GetAffiliate(ctx context.Context, affiliateID uuid.UUID) (*db.Affiliate, error)
	GetAffiliateByCode(ctx context.Context, code string) (*db.Affiliate, error)
	HasRecentClick(ctx context.Context, affiliateID uuid.UUID, visitorID string, window time.Duration) (bool, error)
	RecordClick(ctx context.Context, affiliateID uuid.UUID, visitorID string) error
	SaveReferral(ctx context.Context, affiliateID uuid.UUID, visitorID string, expiresAt time.Time) error
	GetActiveReferral(ctx context.Context, visitorID string) (*db.AffiliateReferral, error)
	ClearReferral(ctx context.Context, visitorID string) error
	MarkReferralConverted(ctx context.Context, referralID, userID uuid.UUID) error
	CreateCommission(ctx context.Context, affiliateID, referralID uuid.UUID, amountCents int64) (uuid.UUID, error)
}

// Tracker records clicks and conversions against affiliate codes.
type Tracker struct {
	store  Store
	window time.Duration
}

// NewTracker creates a tracker. A zero window falls back to the default 24h.
func NewTracker(store Store, window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultAttributionWindow
	}
	return &Tracker{store: store, window: window}
}

// TrackClick registers a referral visit. authedUserID is nil for anonymous
// visitors. Invalid codes are ignored; an affiliate presenting their own code
// is rejected and any cached referral for that visitor is cleared. Repeat
// visits inside the attribution window do not double-count the click.
//
// TrackClick never reports failure to the caller.
func (t *Tracker) TrackClick(ctx context.Context, code, visitorID string, authedUserID *uuid.UUID) {
	aff, err := t.store.GetAffiliateByCode(ctx, code)
	if err != nil {
		log.Printf("[affiliate] click lookup failed for code %q: %v", code, err)
		return
	}
	if aff == nil || !aff.Active {
		return
	}

	// Self-referral: an affiliate cannot credit themselves.
	if authedUserID != nil && *authedUserID == aff.UserID {
		if err := t.store.ClearReferral(ctx, visitorID); err != nil {
			log.Printf("[affiliate] failed to clear self-referral for visitor %s: %v", visitorID, err)
		}
		return
	}

	seen, err := t.store.HasRecentClick(ctx, aff.ID, visitorID, t.window)
	if err != nil {
		log.Printf("[affiliate] click dedup check failed: %v", err)
		return
	}
	if !seen {
		if err := t.store.RecordClick(ctx, aff.ID, visitorID); err != nil {
			log.Printf("[affiliate] failed to record click: %v", err)
			return
		}
	}

	if err := t.store.SaveReferral(ctx, aff.ID, visitorID, time.Now().Add(t.window)); err != nil {
		log.Printf("[affiliate] failed to save referral: %v", err)
	}
}

// RecordConversion attributes a paid subscription to the visitor's cached
// referral, if one is still inside the attribution window, and books a
// pending commission for the affiliate. A conversion by the affiliate's own
// account is ignored.
//
// Like TrackClick, failures are logged and absorbed.
func (t *Tracker) RecordConversion(ctx context.Context, visitorID string, userID uuid.UUID, amountCents int64) {
	ref, err := t.store.GetActiveReferral(ctx, visitorID)
	if err != nil {
		log.Printf("[affiliate] referral lookup failed for visitor %s: %v", visitorID, err)
		return
	}
	if ref == nil {
		return
	}

	aff, err := t.store.GetAffiliate(ctx, ref.AffiliateID)
	if err != nil {
		log.Printf("[affiliate] affiliate lookup failed: %v", err)
		return
	}
	if aff == nil || !aff.Active {
		return
	}

	// An affiliate buying through their own link earns nothing. The click-time
	// owner check only sees logged-in visitors, so recheck against the
	// purchasing account here.
	if aff.UserID == userID {
		log.Printf("[affiliate] ignoring self-conversion by affiliate %s", aff.ID)
		return
	}

	if err := t.store.MarkReferralConverted(ctx, ref.ID, userID); err != nil {
		log.Printf("[affiliate] failed to mark referral converted: %v", err)
		return
	}

	amount := Commission(amountCents, aff.CommissionRate)
	if _, err := t.store.CreateCommission(ctx, aff.ID, ref.ID, amount); err != nil {
		log.Printf("[affiliate] failed to create commission: %v", err)
	}
}
