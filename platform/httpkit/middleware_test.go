package httpkit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testJWTSecret = "middleware-test-secret"

type stubJWTConfig struct{}

func (stubJWTConfig) GetJWTAccessSecret() string { return testJWTSecret }

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func accessClaims(userID uuid.UUID, roles []string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   userID.String(),
		"type":  "access",
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(stubJWTConfig{})}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		identity := MustGetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"userId": identity.UserID().String()})
	})
	engine.GET("/protected", handlers...)
	return engine
}

func doRequest(engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	engine := protectedRouter()
	userID := uuid.New()
	token := signToken(t, accessClaims(userID, []string{"pro"}))

	rec := doRequest(engine, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRequiredRejections(t *testing.T) {
	engine := protectedRouter()
	userID := uuid.New()

	expired := accessClaims(userID, []string{"pro"})
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	refreshTyped := accessClaims(userID, []string{"pro"})
	refreshTyped["type"] = "refresh"

	badSub := accessClaims(userID, []string{"pro"})
	badSub["sub"] = "not-a-uuid"

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc123"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + signToken(t, expired)},
		{"wrong token type", "Bearer " + signToken(t, refreshTyped)},
		{"malformed subject", "Bearer " + signToken(t, badSub)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(engine, tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthRequiredRejectsWrongSecret(t *testing.T) {
	engine := protectedRouter()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims(uuid.New(), []string{"pro"})).
		SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec := doRequest(engine, "Bearer "+signed)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	engine := protectedRouter(RequireRole(RoleAdmin))
	token := signToken(t, accessClaims(uuid.New(), []string{"pro", "admin"}))

	rec := doRequest(engine, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRoleForbidsNonAdmin(t *testing.T) {
	engine := protectedRouter(RequireRole(RoleAdmin))
	token := signToken(t, accessClaims(uuid.New(), []string{"pro"}))

	rec := doRequest(engine, "Bearer "+token)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestIdentityFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	userID := uuid.New()

	engine.GET("/whoami", AuthRequired(stubJWTConfig{}), func(c *gin.Context) {
		identity := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{
			"userId":  identity.UserID().String(),
			"isAdmin": identity.HasRole(RoleAdmin),
		})
	})

	token := signToken(t, accessClaims(userID, []string{"pro"}))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, userID.String()) {
		t.Errorf("body %q missing user id %s", body, userID)
	}
	if !strings.Contains(body, `"isAdmin":false`) {
		t.Errorf("body %q should report isAdmin false", body)
	}
}
