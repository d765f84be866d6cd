package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateAffiliate enrolls a user in the referral program with a unique code
func (db *DB) CreateAffiliate(ctx context.Context, userID uuid.UUID, code string, commissionRate int) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO affiliates (user_id, code, commission_rate, active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id`,
		userID, code, commissionRate,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create affiliate: %w", err)
	}
	return id, nil
}

// GetAffiliate retrieves an affiliate by ID. Returns (nil, nil) when no row exists.
func (db *DB) GetAffiliate(ctx context.Context, affiliateID uuid.UUID) (*Affiliate, error) {
	var a Affiliate
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, code, commission_rate, active, created_at
		 FROM affiliates WHERE id = $1`,
		affiliateID,
	).Scan(&a.ID, &a.UserID, &a.Code, &a.CommissionRate, &a.Active, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get affiliate: %w", err)
	}
	return &a, nil
}

// GetAffiliateByCode retrieves an affiliate by referral code. Returns (nil, nil) when no row exists.
func (db *DB) GetAffiliateByCode(ctx context.Context, code string) (*Affiliate, error) {
	var a Affiliate
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, code, commission_rate, active, created_at
		 FROM affiliates WHERE code = $1`,
		code,
	).Scan(&a.ID, &a.UserID, &a.Code, &a.CommissionRate, &a.Active, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get affiliate by code: %w", err)
	}
	return &a, nil
}

// GetAffiliateByUserID retrieves the affiliate record owned by a user. Returns (nil, nil) when no row exists.
func (db *DB) GetAffiliateByUserID(ctx context.Context, userID uuid.UUID) (*Affiliate, error) {
	var a Affiliate
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, code, commission_rate, active, created_at
		 FROM affiliates WHERE user_id = $1`,
		userID,
	).Scan(&a.ID, &a.UserID, &a.Code, &a.CommissionRate, &a.Active, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get affiliate by user: %w", err)
	}
	return &a, nil
}

// HasRecentClick reports whether the visitor already has a click recorded
// against the affiliate within the window
func (db *DB) HasRecentClick(ctx context.Context, affiliateID uuid.UUID, visitorID string, window time.Duration) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM affiliate_clicks
		   WHERE affiliate_id = $1 AND visitor_id = $2 AND created_at > NOW() - $3::interval
		 )`,
		affiliateID, visitorID, window.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check recent click: %w", err)
	}
	return exists, nil
}

// RecordClick stores one click event against an affiliate
func (db *DB) RecordClick(ctx context.Context, affiliateID uuid.UUID, visitorID string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO affiliate_clicks (affiliate_id, visitor_id) VALUES ($1, $2)`,
		affiliateID, visitorID,
	)
	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}
	return nil
}

// SaveReferral remembers the visitor's referral code until expiresAt.
// A repeat visit refreshes the attribution to the latest code.
func (db *DB) SaveReferral(ctx context.Context, affiliateID uuid.UUID, visitorID string, expiresAt time.Time) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO affiliate_referrals (affiliate_id, visitor_id, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (visitor_id) WHERE converted_at IS NULL
		 DO UPDATE SET affiliate_id = $1, expires_at = $3`,
		affiliateID, visitorID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save referral: %w", err)
	}
	return nil
}

// GetActiveReferral retrieves the visitor's unexpired, unconverted referral.
// Returns (nil, nil) when none exists.
func (db *DB) GetActiveReferral(ctx context.Context, visitorID string) (*AffiliateReferral, error) {
	var r AffiliateReferral
	err := db.pool.QueryRow(ctx,
		`SELECT id, affiliate_id, visitor_id, referred_user_id, expires_at, converted_at, created_at
		 FROM affiliate_referrals
		 WHERE visitor_id = $1 AND converted_at IS NULL AND expires_at > NOW()`,
		visitorID,
	).Scan(&r.ID, &r.AffiliateID, &r.VisitorID, &r.ReferredUserID, &r.ExpiresAt, &r.ConvertedAt, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get referral: %w", err)
	}
	return &r, nil
}

// ClearReferral drops any unconverted referral cached for the visitor
func (db *DB) ClearReferral(ctx context.Context, visitorID string) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM affiliate_referrals WHERE visitor_id = $1 AND converted_at IS NULL`,
		visitorID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear referral: %w", err)
	}
	return nil
}

// MarkReferralConverted stamps the referral with the purchasing user
func (db *DB) MarkReferralConverted(ctx context.Context, referralID, userID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE affiliate_referrals
		 SET converted_at = NOW(), referred_user_id = $2
		 WHERE id = $1 AND converted_at IS NULL`,
		referralID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark referral converted: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("referral not found or already converted: %s", referralID)
	}
	return nil
}

// CreateCommission stores a pending commission for a converted referral
func (db *DB) CreateCommission(ctx context.Context, affiliateID, referralID uuid.UUID, amountCents int64) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO affiliate_commissions (affiliate_id, referral_id, amount_cents, status)
		 VALUES ($1, $2, $3, 'pending')
		 RETURNING id`,
		affiliateID, referralID, amountCents,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create commission: %w", err)
	}
	return id, nil
}

// UpdateCommissionStatus advances a commission along pending -> validated -> paid.
// Returns false when no commission with that ID exists.
func (db *DB) UpdateCommissionStatus(ctx context.Context, commissionID uuid.UUID, status string) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE affiliate_commissions SET status = $1 WHERE id = $2`,
		status, commissionID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update commission status: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// AffiliateTotals aggregates the dashboard counters for one affiliate
type AffiliateTotals struct {
	Clicks         int64
	Referrals      int64
	Conversions    int64
	PendingCents   int64
	ValidatedCents int64
	PaidCents      int64
}

// GetAffiliateTotals computes click, referral and commission aggregates
func (db *DB) GetAffiliateTotals(ctx context.Context, affiliateID uuid.UUID) (*AffiliateTotals, error) {
	var t AffiliateTotals
	err := db.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM affiliate_clicks WHERE affiliate_id = $1),
		   (SELECT COUNT(*) FROM affiliate_referrals WHERE affiliate_id = $1),
		   (SELECT COUNT(*) FROM affiliate_referrals WHERE affiliate_id = $1 AND converted_at IS NOT NULL),
		   (SELECT COALESCE(SUM(amount_cents), 0) FROM affiliate_commissions WHERE affiliate_id = $1 AND status = 'pending'),
		   (SELECT COALESCE(SUM(amount_cents), 0) FROM affiliate_commissions WHERE affiliate_id = $1 AND status = 'validated'),
		   (SELECT COALESCE(SUM(amount_cents), 0) FROM affiliate_commissions WHERE affiliate_id = $1 AND status = 'paid')`,
		affiliateID,
	).Scan(&t.Clicks, &t.Referrals, &t.Conversions, &t.PendingCents, &t.ValidatedCents, &t.PaidCents)
	if err != nil {
		return nil, fmt.Errorf("failed to get affiliate totals: %w", err)
	}
	return &t, nil
}
