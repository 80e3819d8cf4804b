package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/application"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/contracts"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/ports"
)

const visitorCookieName = "vf_visitor"

type Handler struct {
	service       *application.Service
	verifier      ports.TokenVerifier
	publicBaseURL string
}

func NewHandler(service *application.Service, verifier ports.TokenVerifier, publicBaseURL string) *Handler {
	return &Handler{service: service, verifier: verifier, publicBaseURL: publicBaseURL}
}

// trackClick is the public referral entry point: /r/{code}. The visitor is
// tagged with a cookie so repeat clicks map to the same referral row.
func (h *Handler) trackClick(w http.ResponseWriter, r *http.Request) {
	visitorID := ""
	if cookie, err := r.Cookie(visitorCookieName); err == nil {
		visitorID = cookie.Value
	}
	result, err := h.service.TrackReferralClick(r.Context(), application.TrackClickInput{
		Code:      chi.URLParam(r, "code"),
		VisitorID: visitorID,
	})
	if err != nil {
		if status, code, msg := mapDomainError(err); status == http.StatusNotFound || status == http.StatusBadRequest {
			writeError(w, status, code, msg)
			return
		}
		// Broken tracking must not break the shop link itself.
		http.Redirect(w, r, h.publicBaseURL, http.StatusFound)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    result.VisitorID,
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, result.RedirectURL, http.StatusFound)
}

func (h *Handler) enroll(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	aff, err := h.service.EnrollAffiliate(r.Context(), actor)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.EnrollAffiliateResponse{
		AffiliateID: aff.AffiliateID,
		Code:        aff.Code,
		ReferralURL: h.publicBaseURL + "/r/" + aff.Code,
		Status:      aff.Status,
	})
}

func (h *Handler) getOverview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	overview, err := h.service.GetAffiliateOverview(r.Context(), actor)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.OverviewResponse{
		AffiliateID:      overview.AffiliateID,
		DisplayClicks:    overview.DisplayClicks,
		DisplayReferrals: overview.DisplayReferrals,
		PendingTotal:     overview.PendingTotal,
		ApprovedTotal:    overview.ApprovedTotal,
		PaidTotal:        overview.PaidTotal,
		TotalCommission:  overview.TotalCommission,
	})
}

func (h *Handler) listCommissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	rows, err := h.service.ListCommissions(r.Context(), actor)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	items := make([]contracts.CommissionResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toCommissionResponse(row))
	}
	writeSuccess(w, http.StatusOK, contracts.CommissionListResponse{Items: items})
}

func (h *Handler) quoteOrder(w http.ResponseWriter, r *http.Request) {
	var req contracts.QuoteOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	if req.Subtotal < 0 || req.ShippingFee < 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "subtotal and shipping_fee must be non-negative")
		return
	}
	affiliateID := ""
	if actor, ok := actorFromContext(r.Context()); ok {
		affiliateID = actor.SubjectID
	}
	breakdown := h.service.QuoteOrder(r.Context(), application.QuoteOrderInput{
		Subtotal:      req.Subtotal,
		ShippingFee:   req.ShippingFee,
		PaymentMethod: req.PaymentMethod,
		AffiliateID:   affiliateID,
	})
	writeSuccess(w, http.StatusOK, contracts.QuoteOrderResponse{
		Subtotal:     breakdown.Subtotal,
		ShippingFee:  breakdown.ShippingFee,
		CODSurcharge: breakdown.CODSurcharge,
		Total:        breakdown.Total,
	})
}

func (h *Handler) getCODSettings(w http.ResponseWriter, r *http.Request) {
	settings := h.service.GetCODSettings(r.Context())
	writeSuccess(w, http.StatusOK, toCODSettingsResponse(settings))
}

func (h *Handler) updateCODSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req contracts.UpdateCODSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	settings, err := h.service.UpdateCODSettings(r.Context(), actor, application.UpdateCODSettingsInput{
		SurchargeAmount: req.SurchargeAmount,
		IsEnabled:       req.IsEnabled,
		Description:     req.Description,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, toCODSettingsResponse(settings))
}

func (h *Handler) recordCommission(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	affiliateID := chi.URLParam(r, "affiliate_id")
	var req contracts.RecordCommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	row, err := h.service.RecordCommission(r.Context(), actor, application.RecordCommissionInput{
		AffiliateID:      affiliateID,
		ReferralID:       req.ReferralID,
		OrderID:          req.OrderID,
		CommissionAmount: req.CommissionAmount,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.RecordCommissionResponse{
		CommissionID: row.CommissionID,
		AffiliateID:  row.AffiliateID,
		OrderID:      row.OrderID,
		Amount:       row.CommissionAmount,
		Status:       string(row.Status),
		CreatedAt:    row.CreatedAt.Format(time.RFC3339),
	})
}

func (h *Handler) approveCommission(w http.ResponseWriter, r *http.Request) {
	h.advanceCommission(w, r, h.service.ApproveCommission)
}

func (h *Handler) payCommission(w http.ResponseWriter, r *http.Request) {
	h.advanceCommission(w, r, h.service.MarkCommissionPaid)
}

func (h *Handler) advanceCommission(w http.ResponseWriter, r *http.Request, advance func(ctx context.Context, actor application.Actor, commissionID string) (domain.Commission, error)) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	row, err := advance(r.Context(), actor, chi.URLParam(r, "commission_id"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.AdvanceCommissionResponse{
		CommissionID: row.CommissionID,
		Status:       string(row.Status),
		UpdatedAt:    row.UpdatedAt.Format(time.RFC3339),
	})
}

func toCommissionResponse(row domain.Commission) contracts.CommissionResponse {
	return contracts.CommissionResponse{
		CommissionID:     row.CommissionID,
		OrderID:          row.OrderID,
		CommissionAmount: row.CommissionAmount,
		Status:           string(row.Status),
		CreatedAt:        row.CreatedAt.Format(time.RFC3339),
	}
}

func toCODSettingsResponse(settings domain.CODSettings) contracts.CODSettingsResponse {
	return contracts.CODSettingsResponse{
		SurchargeAmount: settings.SurchargeAmount,
		IsEnabled:       settings.IsEnabled,
		Description:     settings.Description,
		UpdatedAt:       settings.UpdatedAt.Format(time.RFC3339),
	}
}
