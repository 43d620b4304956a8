package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"investrack/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		uid, _ := c.Get("userID")
		email, _ := c.Get("email")
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"user_id": uid, "email": email, "role": role})
	})
	r.GET("/admin", AuthMiddleware(), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func doAuthRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.User{
		Base:  models.Base{ID: 7},
		Email: "middleware@example.com",
		Role:  models.RoleUser,
	}

	t.Run("valid access token sets identity", func(t *testing.T) {
		token, err := GenerateAccessToken(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		r := setupAuthRouter()

		rec := doAuthRequest(r, "/protected", "Bearer "+token)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := parseBody(t, rec)
		if body["user_id"] != float64(7) {
			t.Errorf("expected user_id 7, got %v", body["user_id"])
		}
		if body["email"] != "middleware@example.com" {
			t.Errorf("expected email in context, got %v", body["email"])
		}
		if body["role"] != "USER" {
			t.Errorf("expected role USER, got %v", body["role"])
		}
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec := doAuthRequest(setupAuthRouter(), "/protected", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		rec := doAuthRequest(setupAuthRouter(), "/protected", "Token abc")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		rec := doAuthRequest(setupAuthRouter(), "/protected", "Bearer not.a.jwt")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("refresh token cannot be used as access token", func(t *testing.T) {
		token, err := GenerateRefreshToken(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		rec := doAuthRequest(setupAuthRouter(), "/protected", "Bearer "+token)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("admin token passes", func(t *testing.T) {
		admin := &models.User{
			Base:  models.Base{ID: 1},
			Email: "admin@example.com",
			Role:  models.RoleAdmin,
		}
		token, err := GenerateAccessToken(admin)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		rec := doAuthRequest(setupAuthRouter(), "/admin", "Bearer "+token)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("user token gets 403", func(t *testing.T) {
		user := &models.User{
			Base:  models.Base{ID: 2},
			Email: "user@example.com",
			Role:  models.RoleUser,
		}
		token, err := GenerateAccessToken(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		rec := doAuthRequest(setupAuthRouter(), "/admin", "Bearer "+token)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestValidateRefreshToken(t *testing.T) {
	user := &models.User{Base: models.Base{ID: 3}, Email: "rt@example.com", Role: models.RoleUser}

	t.Run("round trips claims", func(t *testing.T) {
		token, err := GenerateRefreshToken(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		claims, err := ValidateRefreshToken(token)
		if err != nil {
			t.Fatalf("expected valid token, got error: %v", err)
		}
		if claims.UserID != 3 || claims.Email != "rt@example.com" {
			t.Errorf("unexpected claims: %+v", claims)
		}
		if claims.TokenType != "refresh" {
			t.Errorf("expected refresh token type, got %q", claims.TokenType)
		}
	})

	t.Run("rejects access token", func(t *testing.T) {
		token, err := GenerateAccessToken(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		if _, err := ValidateRefreshToken(token); err == nil {
			t.Error("expected error for access token")
		}
	})
}

func TestHashToken(t *testing.T) {
	if got := HashToken("abc"); len(got) != 64 {
		t.Errorf("expected 64-char hex digest, got %d chars", len(got))
	}
	if HashToken("abc") != HashToken("abc") {
		t.Error("expected deterministic hash")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Error("expected different inputs to hash differently")
	}
}
