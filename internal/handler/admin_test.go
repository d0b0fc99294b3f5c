package handler

import (
	"net/http"
	"testing"
)

func TestAdminRequiresKey(t *testing.T) {
	h := newHarness(handlerTenant("user1.com"))

	rec := h.request(t, http.MethodGet, "/admin/tenants", "", nil, nil)
	if rec.Code != http.StatusUnauthorized && rec.Code != http.StatusForbidden {
		t.Fatalf("expected rejection without key, got %d", rec.Code)
	}

	rec = h.request(t, http.MethodGet, "/admin/tenants", "", nil, map[string]string{"X-Admin-Key": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong key, got %d", rec.Code)
	}
}

func TestAdminUpsertThenGateAdmits(t *testing.T) {
	h := newHarness()
	adminHeaders := map[string]string{"X-Admin-Key": testAdminKey}

	body := map[string]interface{}{
		"domain":          "WWW.User2.COM",
		"wallet_address":  "TServerWallet",
		"auto_fund_sun":   13_000_000,
		"min_balance_sun": 11_000_000,
	}
	rec := h.request(t, http.MethodPost, "/admin/tenants", "", body, adminHeaders)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upsert failed: %d (%s)", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	if created["domain"] != "user2.com" {
		t.Fatalf("domain not canonicalized: %v", created["domain"])
	}
	if _, leaked := created["private_key"]; leaked {
		t.Fatal("signing secret leaked in admin response")
	}

	// A tenant registered without a secret slot is authorized but not
	// usable, so the gate answers misconfigured rather than forbidden.
	rec = h.request(t, http.MethodGet, "/api/server-info", "https://user2.com", nil, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for keyless tenant, got %d", rec.Code)
	}
	if code := decodeBody(t, rec)["code"]; code != "TENANT_MISCONFIGURED" {
		t.Fatalf("expected TENANT_MISCONFIGURED, got %v", code)
	}

	t.Setenv("TRONGATE_SECRET_USER2_COM", "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	rec = h.request(t, http.MethodGet, "/api/server-info", "https://user2.com", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 once secret slot is set, got %d (%s)", rec.Code, rec.Body.String())
	}
	info := decodeBody(t, rec)
	if info["domain"] != "user2.com" || info["walletAddress"] != "TServerWallet" {
		t.Fatalf("unexpected server info: %v", info)
	}
	for key := range info {
		if key == "privateKey" || key == "private_key" {
			t.Fatal("signing secret leaked in server info")
		}
	}
}

func TestAdminToggleFlipsFlag(t *testing.T) {
	h := newHarness(handlerTenant("user1.com"))
	adminHeaders := map[string]string{"X-Admin-Key": testAdminKey}

	rec := h.request(t, http.MethodPost, "/admin/tenants/user1.com/toggle", "", nil, adminHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle failed: %d", rec.Code)
	}
	if got := decodeBody(t, rec); got["enabled"] != false {
		t.Fatalf("expected toggle to disable, got %v", got)
	}

	rec = h.request(t, http.MethodPost, "/admin/tenants/user1.com/toggle", "", nil, adminHeaders)
	if got := decodeBody(t, rec); got["enabled"] != true {
		t.Fatalf("expected toggle back to enabled, got %v", got)
	}
}

func TestAdminToggleUnknownTenant(t *testing.T) {
	h := newHarness()
	adminHeaders := map[string]string{"X-Admin-Key": testAdminKey}

	rec := h.request(t, http.MethodPost, "/admin/tenants/nobody.com/toggle", "", nil, adminHeaders)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", rec.Code, rec.Body.String())
	}
}
