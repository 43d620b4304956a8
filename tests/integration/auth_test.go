package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAuthFlow_RegisterLoginProfile(t *testing.T) {
	app := setupApp(t)

	// Register
	token, _, userID := app.registerUser(t, "alice@test.com", "password123")
	if userID == 0 {
		t.Fatal("expected non-zero user ID")
	}

	// Duplicate registration is rejected
	rec := app.request("POST", "/api/v1/auth/register",
		`{"email":"alice@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d: %s", rec.Code, rec.Body.String())
	}

	// Case-insensitive duplicate is also rejected
	rec = app.request("POST", "/api/v1/auth/register",
		`{"email":"ALICE@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for case-variant duplicate, got %d", rec.Code)
	}

	// Profile requires a token
	rec = app.request("GET", "/api/v1/profile", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// Profile with the registration token
	rec = app.request("GET", "/api/v1/profile", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["email"] != "alice@test.com" {
		t.Errorf("expected alice@test.com, got %v", user["email"])
	}

	// Wrong password
	rec = app.request("POST", "/api/v1/auth/login",
		`{"email":"alice@test.com","password":"wrongpass"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}

	// Correct login
	access, _ := app.loginUser(t, "alice@test.com", "password123")
	rec = app.request("GET", "/api/v1/profile", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with login token, got %d", rec.Code)
	}
}

func TestAuthFlow_RefreshRotation(t *testing.T) {
	app := setupApp(t)
	_, refresh, _ := app.registerUser(t, "bob@test.com", "password123")

	// Redeem the refresh token for a new pair.
	rec := app.request("POST", "/api/v1/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for refresh, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	newAccess := result["access_token"].(string)
	if result["refresh_token"].(string) == "" {
		t.Fatal("expected a new refresh token")
	}

	// The new access token works.
	rec = app.request("GET", "/api/v1/profile", "", newAccess)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with refreshed token, got %d", rec.Code)
	}

	// The old refresh token was rotated out and cannot be redeemed again.
	rec = app.request("POST", "/api/v1/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for reused refresh token, got %d", rec.Code)
	}
}

func TestAuthFlow_RefreshTokenRejectedAsAccessToken(t *testing.T) {
	app := setupApp(t)
	_, refresh, _ := app.registerUser(t, "carol@test.com", "password123")

	rec := app.request("GET", "/api/v1/profile", "", refresh)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 using refresh token on a protected route, got %d", rec.Code)
	}
}
