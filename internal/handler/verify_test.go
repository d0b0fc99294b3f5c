package handler

import (
	"net/http"
	"testing"
)

func TestVerifyDomainAuthorizedAndEnabled(t *testing.T) {
	h := newHarness(handlerTenant("user1.com"))

	rec := h.request(t, http.MethodGet, "/verify-domain", "https://www.user1.com", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody(t, rec)
	if got["authorized"] != true || got["enabled"] != true {
		t.Fatalf("unexpected verdict: %v", got)
	}
	if got["domain"] != "user1.com" {
		t.Fatalf("expected canonical domain, got %v", got["domain"])
	}
}

func TestVerifyDomainUnknown(t *testing.T) {
	h := newHarness(handlerTenant("user1.com"))

	rec := h.request(t, http.MethodGet, "/verify-domain", "https://evil.com", nil, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	got := decodeBody(t, rec)
	if got["authorized"] != false {
		t.Fatalf("unknown domain reported authorized: %v", got)
	}
}

// Disabling a tenant over the admin surface must flip both the gate and the
// verify endpoint on the very next request.
func TestAdminDisableTakesImmediateEffect(t *testing.T) {
	h := newHarness(handlerTenant("user1.com"))
	adminHeaders := map[string]string{"X-Admin-Key": testAdminKey}

	rec := h.request(t, http.MethodPost, "/admin/tenants/user1.com/disable", "", nil, adminHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("disable failed: %d (%s)", rec.Code, rec.Body.String())
	}

	rec = h.request(t, http.MethodGet, "/verify-domain", "https://user1.com", nil, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after disable, got %d", rec.Code)
	}
	got := decodeBody(t, rec)
	if got["authorized"] != true {
		t.Fatal("disabled tenant should still read as authorized")
	}
	if got["enabled"] != false {
		t.Fatal("disabled tenant should read enabled=false")
	}

	body := map[string]interface{}{"userAddress": validTarget}
	rec = h.request(t, http.MethodPost, "/api/check-balance", "https://user1.com", body, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("gate must reject disabled tenant, got %d", rec.Code)
	}
	if code := decodeBody(t, rec)["code"]; code != "DOMAIN_DISABLED" {
		t.Fatalf("expected DOMAIN_DISABLED, got %v", code)
	}

	rec = h.request(t, http.MethodPost, "/admin/tenants/user1.com/enable", "", nil, adminHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("enable failed: %d", rec.Code)
	}
	rec = h.request(t, http.MethodGet, "/verify-domain", "https://user1.com", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after re-enable, got %d", rec.Code)
	}
}

func TestHealthNeedsNoOrigin(t *testing.T) {
	h := newHarness(handlerTenant("user1.com"))

	rec := h.request(t, http.MethodGet, "/health", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody(t, rec)
	if got["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", got)
	}
}
