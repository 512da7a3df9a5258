package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestRegisterLoginProfile(t *testing.T) {
	app := setupApp(t)
	token, _, userID := app.registerUser(t, "new@example.com", "password123")

	rec := app.request("GET", "/api/v1/profile", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get profile failed: %d %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["id"] != userID {
		t.Errorf("profile returned wrong user: %v", user["id"])
	}
	if user["email"] != "new@example.com" {
		t.Errorf("unexpected email: %v", user["email"])
	}

	// Duplicate registration is rejected.
	body := `{"email":"new@example.com","password":"password123"}`
	rec = app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", rec.Code)
	}

	// Email matching is case-insensitive on login.
	app.loginUser(t, "NEW@example.com", "password123")
}

func TestRefreshRotationAndLogout(t *testing.T) {
	app := setupApp(t)
	_, refresh, _ := app.registerUser(t, "rotate@example.com", "password123")

	// A valid refresh token yields a new pair and invalidates itself.
	body := fmt.Sprintf(`{"refresh_token":%q}`, refresh)
	rec := app.request("POST", "/api/v1/auth/refresh", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	newAccess := result["access_token"].(string)
	newRefresh := result["refresh_token"].(string)

	rec = app.request("POST", "/api/v1/auth/refresh", body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected rotated-out token to be rejected, got %d", rec.Code)
	}

	// Logout revokes the current refresh token.
	rec = app.request("POST", "/api/v1/auth/logout", "", newAccess)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout failed: %d %s", rec.Code, rec.Body.String())
	}
	body = fmt.Sprintf(`{"refresh_token":%q}`, newRefresh)
	rec = app.request("POST", "/api/v1/auth/refresh", body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected refresh after logout to fail, got %d", rec.Code)
	}

	// Access tokens cannot be used as refresh tokens.
	body = fmt.Sprintf(`{"refresh_token":%q}`, newAccess)
	rec = app.request("POST", "/api/v1/auth/refresh", body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected access token to be rejected as refresh, got %d", rec.Code)
	}
}

func TestLoginLockout(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "locked@example.com", "password123")

	body := `{"email":"locked@example.com","password":"wrong-password"}`
	for i := 0; i < 5; i++ {
		rec := app.request("POST", "/api/v1/auth/login", body, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
		}
	}

	// The account is now locked, even with the correct password.
	rec := app.request("POST", "/api/v1/auth/login", `{"email":"locked@example.com","password":"password123"}`, "")
	if rec.Code != http.StatusLocked {
		t.Fatalf("expected 423 for locked account, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestPasswordResetFlow(t *testing.T) {
	app := setupApp(t)
	_, refresh, _ := app.registerUser(t, "reset@example.com", "password123")

	// Recovery always answers 200, known account or not.
	rec := app.request("POST", "/api/v1/auth/recover", `{"email":"reset@example.com"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("recover failed: %d", rec.Code)
	}
	rec = app.request("POST", "/api/v1/auth/recover", `{"email":"nobody@example.com"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("recover for unknown account should still answer 200, got %d", rec.Code)
	}

	// Recovery tokens share the refresh token format.
	body := fmt.Sprintf(`{"token":%q,"new_password":"brand-new-pass"}`, refresh)
	rec = app.request("POST", "/api/v1/auth/reset", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset failed: %d %s", rec.Code, rec.Body.String())
	}

	// Old password no longer works, new one does.
	rec = app.request("POST", "/api/v1/auth/login", `{"email":"reset@example.com","password":"password123"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected old password to fail, got %d", rec.Code)
	}
	app.loginUser(t, "reset@example.com", "brand-new-pass")

	// Reset revoked the outstanding refresh token.
	body = fmt.Sprintf(`{"refresh_token":%q}`, refresh)
	rec = app.request("POST", "/api/v1/auth/refresh", body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected refresh revoked by reset, got %d", rec.Code)
	}
}

func TestSettingsFlow(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "settings@example.com", "password123")

	rec := app.request("GET", "/api/v1/settings", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get settings failed: %d %s", rec.Code, rec.Body.String())
	}
	settings := parseJSON(t, rec)
	if settings["currency"] != "USD" {
		t.Errorf("expected default currency USD, got %v", settings["currency"])
	}

	rec = app.request("PUT", "/api/v1/settings", `{"daily_limit":5000,"currency":"EUR"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update settings failed: %d %s", rec.Code, rec.Body.String())
	}
	settings = parseJSON(t, rec)
	if settings["daily_limit"].(float64) != 5000 || settings["currency"] != "EUR" {
		t.Errorf("unexpected settings after update: %v", settings)
	}

	rec = app.request("PUT", "/api/v1/settings", `{"currency":"NOPE"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown currency, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/api/v1/expenses", "/api/v1/goals", "/api/v1/insights", "/api/v1/settings"} {
		rec := app.request("GET", path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without token, got %d", path, rec.Code)
		}
	}

	rec := app.request("GET", "/api/v1/expenses", "", "not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for malformed token, got %d", rec.Code)
	}
}
