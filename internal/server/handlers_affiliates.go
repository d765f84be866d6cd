package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/julienlaffont/cvbooster/internal/server/middleware"
	"github.com/julienlaffont/cvbooster/internal/types"
)

// billingAuthorized checks the shared-secret header carried by calls from
// the billing reconciliation process. Conversions and commission status
// changes mint or move money, so they never run for unauthenticated callers.
func (s *Server) billingAuthorized(r *http.Request) bool {
	secret := r.Header.Get("X-Billing-Secret")
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(s.billingSecret)) == 1
}

// handleTrackClick registers a referral click. The endpoint is anonymous,
// but a bearer token is honoured when present so an affiliate clicking their
// own link is detected. Tracking problems never surface to the caller.
func (s *Server) handleTrackClick(w http.ResponseWriter, r *http.Request) {
	var req types.TrackClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	var authedUserID *uuid.UUID
	if token := middleware.BearerToken(r); token != "" {
		if claims, err := s.jwtService.ValidateToken(token); err == nil {
			id := claims.GetUserID()
			authedUserID = &id
		}
	}

	s.tracker.TrackClick(r.Context(), req.Code, req.VisitorID, authedUserID)
	w.WriteHeader(http.StatusNoContent)
}

// handleAffiliateStats returns the dashboard for the authenticated affiliate.
func (s *Server) handleAffiliateStats(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	aff, err := s.store.GetAffiliateByUserID(r.Context(), userID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if aff == nil {
		s.serviceError(w, &ErrNotAffiliate{})
		return
	}

	totals, err := s.store.GetAffiliateTotals(r.Context(), aff.ID)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.AffiliateStats{
		Code:           aff.Code,
		CommissionRate: aff.CommissionRate,
		Active:         aff.Active,
		Clicks:         totals.Clicks,
		Referrals:      totals.Referrals,
		Conversions:    totals.Conversions,
		PendingCents:   totals.PendingCents,
		ValidatedCents: totals.ValidatedCents,
		PaidCents:      totals.PaidCents,
		MemberSince:    aff.CreatedAt,
	})
}

// handleJoinAffiliate enrolls the authenticated user in the affiliate
// program with a fresh code at the configured commission rate.
func (s *Server) handleJoinAffiliate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	existing, err := s.store.GetAffiliateByUserID(r.Context(), userID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if existing != nil {
		s.serviceError(w, &ErrAlreadyAffiliate{})
		return
	}

	code := newAffiliateCode()
	if _, err := s.store.CreateAffiliate(r.Context(), userID, code, s.commissionRate); err != nil {
		s.serviceError(w, err)
		return
	}

	aff, err := s.store.GetAffiliateByUserID(r.Context(), userID)
	if err != nil || aff == nil {
		s.serviceError(w, fmt.Errorf("failed to load created affiliate: %v", err))
		return
	}
	s.jsonResponse(w, http.StatusCreated, aff)
}

// handleConversion is the internal hook called by billing reconciliation
// when a referred visitor completes a paid subscription. Once the caller is
// authenticated the response is always accepted; attribution failures only
// show up in the logs.
func (s *Server) handleConversion(w http.ResponseWriter, r *http.Request) {
	if !s.billingAuthorized(r) {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.ConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	s.tracker.RecordConversion(r.Context(), req.VisitorID, req.UserID, req.AmountCents)
	w.WriteHeader(http.StatusAccepted)
}

// handleCommissionStatus lets billing reconciliation advance a commission
// from pending to validated, and on to paid once the payout clears.
func (s *Server) handleCommissionStatus(w http.ResponseWriter, r *http.Request) {
	if !s.billingAuthorized(r) {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	commissionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.serviceError(w, &ErrValidation{Field: "id", Message: "must be a valid UUID"})
		return
	}

	var req types.UpdateCommissionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	updated, err := s.store.UpdateCommissionStatus(r.Context(), commissionID, req.Status)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if !updated {
		s.serviceError(w, &ErrCommissionNotFound{CommissionID: commissionID})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// newAffiliateCode generates a short shareable referral code.
func newAffiliateCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:10])
}
