package affiliate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julienlaffont/cvbooster/internal/db"
)

// fakeStore is an in-memory Store for tracker tests.
type fakeStore struct {
	affiliates  map[string]*db.Affiliate // by code
	clicks      []db.AffiliateClick
	referrals   map[string]*db.AffiliateReferral // by visitor ID
	commissions []db.AffiliateCommission

	failLookups bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		affiliates: make(map[string]*db.Affiliate),
		referrals:  make(map[string]*db.AffiliateReferral),
	}
}

func (f *fakeStore) addAffiliate(code string, rate int, active bool) *db.Affiliate {
	aff := &db.Affiliate{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Code:           code,
		CommissionRate: rate,
		Active:         active,
	}
	f.affiliates[code] = aff
	return aff
}

func (f *fakeStore) GetAffiliate(_ context.Context, affiliateID uuid.UUID) (*db.Affiliate, error) {
	if f.failLookups {
		return nil, errors.New("store down")
	}
	for _, aff := range f.affiliates {
		if aff.ID == affiliateID {
			return aff, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetAffiliateByCode(_ context.Context, code string) (*db.Affiliate, error) {
	if f.failLookups {
		return nil, errors.New("store down")
	}
	return f.affiliates[code], nil
}

func (f *fakeStore) HasRecentClick(_ context.Context, affiliateID uuid.UUID, visitorID string, _ time.Duration) (bool, error) {
	for _, c := range f.clicks {
		if c.AffiliateID == affiliateID && c.VisitorID == visitorID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) RecordClick(_ context.Context, affiliateID uuid.UUID, visitorID string) error {
	f.clicks = append(f.clicks, db.AffiliateClick{
		ID:          uuid.New(),
		AffiliateID: affiliateID,
		VisitorID:   visitorID,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (f *fakeStore) SaveReferral(_ context.Context, affiliateID uuid.UUID, visitorID string, expiresAt time.Time) error {
	f.referrals[visitorID] = &db.AffiliateReferral{
		ID:          uuid.New(),
		AffiliateID: affiliateID,
		VisitorID:   visitorID,
		ExpiresAt:   expiresAt,
	}
	return nil
}

func (f *fakeStore) GetActiveReferral(_ context.Context, visitorID string) (*db.AffiliateReferral, error) {
	ref := f.referrals[visitorID]
	if ref == nil || ref.ConvertedAt != nil || time.Now().After(ref.ExpiresAt) {
		return nil, nil
	}
	return ref, nil
}

func (f *fakeStore) ClearReferral(_ context.Context, visitorID string) error {
	if ref := f.referrals[visitorID]; ref != nil && ref.ConvertedAt == nil {
		delete(f.referrals, visitorID)
	}
	return nil
}

func (f *fakeStore) MarkReferralConverted(_ context.Context, referralID, userID uuid.UUID) error {
	for _, ref := range f.referrals {
		if ref.ID == referralID && ref.ConvertedAt == nil {
			now := time.Now()
			ref.ConvertedAt = &now
			ref.ReferredUserID = &userID
			return nil
		}
	}
	return errors.New("referral not found")
}

func (f *fakeStore) CreateCommission(_ context.Context, affiliateID, referralID uuid.UUID, amountCents int64) (uuid.UUID, error) {
	c := db.AffiliateCommission{
		ID:          uuid.New(),
		AffiliateID: affiliateID,
		ReferralID:  referralID,
		AmountCents: amountCents,
		Status:      db.CommissionPending,
		CreatedAt:   time.Now(),
	}
	f.commissions = append(f.commissions, c)
	return c.ID, nil
}

func TestTrackClick_RecordsClickAndReferral(t *testing.T) {
	store := newFakeStore()
	aff := store.addAffiliate("PARTNER10", 10, true)
	tracker := NewTracker(store, 0)

	tracker.TrackClick(context.Background(), "PARTNER10", "visitor-1", nil)

	require.Len(t, store.clicks, 1)
	assert.Equal(t, aff.ID, store.clicks[0].AffiliateID)
	require.Contains(t, store.referrals, "visitor-1")
	assert.WithinDuration(t, time.Now().Add(DefaultAttributionWindow), store.referrals["visitor-1"].ExpiresAt, time.Minute)
}

func TestTrackClick_UnknownCodeIgnored(t *testing.T) {
	store := newFakeStore()
	tracker := NewTracker(store, 0)

	tracker.TrackClick(context.Background(), "NOPE", "visitor-1", nil)

	assert.Empty(t, store.clicks)
	assert.Empty(t, store.referrals)
}

func TestTrackClick_InactiveAffiliateIgnored(t *testing.T) {
	store := newFakeStore()
	store.addAffiliate("OLD", 10, false)
	tracker := NewTracker(store, 0)

	tracker.TrackClick(context.Background(), "OLD", "visitor-1", nil)

	assert.Empty(t, store.clicks)
	assert.Empty(t, store.referrals)
}

func TestTrackClick_SelfReferralRejected(t *testing.T) {
	store := newFakeStore()
	aff := store.addAffiliate("MINE", 10, true)
	tracker := NewTracker(store, 0)

	// Pre-existing cached referral for the same visitor must be cleared.
	require.NoError(t, store.SaveReferral(context.Background(), aff.ID, "visitor-1", time.Now().Add(time.Hour)))

	tracker.TrackClick(context.Background(), "MINE", "visitor-1", &aff.UserID)

	assert.Empty(t, store.clicks, "no click may be recorded for a self-referral")
	assert.NotContains(t, store.referrals, "visitor-1", "cached referral must be cleared")
}

func TestTrackClick_RepeatVisitDoesNotDoubleCount(t *testing.T) {
	store := newFakeStore()
	store.addAffiliate("PARTNER10", 10, true)
	tracker := NewTracker(store, 0)

	tracker.TrackClick(context.Background(), "PARTNER10", "visitor-1", nil)
	tracker.TrackClick(context.Background(), "PARTNER10", "visitor-1", nil)
	tracker.TrackClick(context.Background(), "PARTNER10", "visitor-1", nil)

	assert.Len(t, store.clicks, 1, "repeat visits inside the window count once")
}

func TestTrackClick_DistinctVisitorsCountSeparately(t *testing.T) {
	store := newFakeStore()
	store.addAffiliate("PARTNER10", 10, true)
	tracker := NewTracker(store, 0)

	tracker.TrackClick(context.Background(), "PARTNER10", "visitor-1", nil)
	tracker.TrackClick(context.Background(), "PARTNER10", "visitor-2", nil)

	assert.Len(t, store.clicks, 2)
}

func TestTrackClick_StoreErrorAbsorbed(t *testing.T) {
	store := newFakeStore()
	store.failLookups = true
	tracker := NewTracker(store, 0)

	// Must not panic and must not record anything.
	tracker.TrackClick(context.Background(), "PARTNER10", "visitor-1", nil)

	assert.Empty(t, store.clicks)
}

func TestRecordConversion_BooksPendingCommission(t *testing.T) {
	store := newFakeStore()
	aff := store.addAffiliate("PARTNER10", 10, true)
	tracker := NewTracker(store, 0)
	userID := uuid.New()

	tracker.TrackClick(context.Background(), "PARTNER10", "visitor-1", nil)
	tracker.RecordConversion(context.Background(), "visitor-1", userID, 2999)

	require.Len(t, store.commissions, 1)
	c := store.commissions[0]
	assert.Equal(t, aff.ID, c.AffiliateID)
	assert.Equal(t, int64(300), c.AmountCents) // round(2999 * 10%)
	assert.Equal(t, db.CommissionPending, c.Status)

	ref := store.referrals["visitor-1"]
	require.NotNil(t, ref.ConvertedAt)
	require.NotNil(t, ref.ReferredUserID)
	assert.Equal(t, userID, *ref.ReferredUserID)
}

func TestRecordConversion_SelfConversionIgnored(t *testing.T) {
	store := newFakeStore()
	aff := store.addAffiliate("MINE", 10, true)
	tracker := NewTracker(store, 0)

	// Logged-out, the click-time owner check cannot fire, so the click and
	// referral go through.
	tracker.TrackClick(context.Background(), "MINE", "visitor-1", nil)
	require.Contains(t, store.referrals, "visitor-1")

	// The purchase names the affiliate's own account.
	tracker.RecordConversion(context.Background(), "visitor-1", aff.UserID, 100000)

	assert.Empty(t, store.commissions, "an affiliate cannot earn on their own purchase")
	assert.Nil(t, store.referrals["visitor-1"].ConvertedAt)
}

func TestRecordConversion_NoReferralNoCommission(t *testing.T) {
	store := newFakeStore()
	store.addAffiliate("PARTNER10", 10, true)
	tracker := NewTracker(store, 0)

	tracker.RecordConversion(context.Background(), "visitor-unknown", uuid.New(), 2999)

	assert.Empty(t, store.commissions)
}

func TestRecordConversion_ExpiredReferralIgnored(t *testing.T) {
	store := newFakeStore()
	aff := store.addAffiliate("PARTNER10", 10, true)
	tracker := NewTracker(store, 0)

	require.NoError(t, store.SaveReferral(context.Background(), aff.ID, "visitor-1", time.Now().Add(-time.Hour)))

	tracker.RecordConversion(context.Background(), "visitor-1", uuid.New(), 2999)

	assert.Empty(t, store.commissions)
}

func TestRecordConversion_ConvertsOnlyOnce(t *testing.T) {
	store := newFakeStore()
	store.addAffiliate("PARTNER10", 10, true)
	tracker := NewTracker(store, 0)
	userID := uuid.New()

	tracker.TrackClick(context.Background(), "PARTNER10", "visitor-1", nil)
	tracker.RecordConversion(context.Background(), "visitor-1", userID, 2999)
	tracker.RecordConversion(context.Background(), "visitor-1", userID, 2999)

	assert.Len(t, store.commissions, 1, "a referral converts at most once")
}
