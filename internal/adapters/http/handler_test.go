package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/adapters/memory"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/application"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/ports"
)

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (ports.AuthClaims, error) {
	switch token {
	case "admin-token":
		return ports.AuthClaims{UserID: "admin-1", Role: "admin"}, nil
	case "user-token":
		return ports.AuthClaims{UserID: "user-1", Role: "affiliate"}, nil
	default:
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
}

func newTestRouter() http.Handler {
	repos := memory.NewRepositories()
	svc := application.NewService(application.Dependencies{
		Affiliates:  repos.Affiliates,
		Referrals:   repos.Referrals,
		Commissions: repos.Commissions,
		Settings:    repos.Settings,
		Idempotency: repos.Idempotency,
		EventDedup:  repos.EventDedup,
		Outbox:      repos.Outbox,
	})
	return NewRouter(NewHandler(svc, stubVerifier{}, "https://shop.example.com"))
}

func TestQuoteEndpointIsPublic(t *testing.T) {
	router := newTestRouter()
	body := `{"subtotal": 3000, "shipping_fee": 500, "payment_method": "COD (Cash on Delivery)"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/checkout/quote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			CODSurcharge float64 `json:"cod_surcharge"`
			Total        float64 `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.CODSurcharge != 250 || resp.Data.Total != 3750 {
		t.Fatalf("unexpected quote: %+v", resp.Data)
	}
}

func TestAffiliateRoutesRequireAuth(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/v1/affiliate/overview", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/affiliate/overview", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateCODSettingsForbiddenForNonAdmin(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodPut, "/v1/admin/settings/cod", strings.NewReader(`{"surcharge_amount": 300}`))
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/v1/admin/settings/cod", strings.NewReader(`{"surcharge_amount": 300}`))
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTrackClickRedirectsAndTagsVisitor(t *testing.T) {
	repos := memory.NewRepositories()
	svc := application.NewService(application.Dependencies{
		Affiliates:  repos.Affiliates,
		Referrals:   repos.Referrals,
		Commissions: repos.Commissions,
		Settings:    repos.Settings,
		Idempotency: repos.Idempotency,
		EventDedup:  repos.EventDedup,
		Outbox:      repos.Outbox,
	})
	router := NewRouter(NewHandler(svc, stubVerifier{}, "https://shop.example.com"))

	enrollReq := httptest.NewRequest(http.MethodPost, "/v1/affiliate/enroll", nil)
	enrollReq.Header.Set("Authorization", "Bearer user-token")
	enrollRec := httptest.NewRecorder()
	router.ServeHTTP(enrollRec, enrollReq)
	if enrollRec.Code != http.StatusOK {
		t.Fatalf("enroll: expected 200, got %d", enrollRec.Code)
	}
	var enrollResp struct {
		Data struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	if err := json.Unmarshal(enrollRec.Body.Bytes(), &enrollResp); err != nil {
		t.Fatalf("decode enroll: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/r/"+enrollResp.Data.Code, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://shop.example.com" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
	cookieSet := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == visitorCookieName && cookie.Value != "" {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Fatalf("visitor cookie not set")
	}
}

func TestUnknownReferralCodeReturnsNotFound(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/r/NOPE1234", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown code, got %d", rec.Code)
	}
}
