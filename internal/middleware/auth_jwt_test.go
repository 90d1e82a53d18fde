package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims TokenClaims) string {
	t.Helper()
	token, err := SignJWT(testSecret, claims)
	if err != nil {
		t.Fatalf("SignJWT returned error: %v", err)
	}
	return token
}

func TestSignAndVerifyJWT(t *testing.T) {
	token := signedToken(t, TokenClaims{
		Sub:    "user-1",
		Plan:   "pro",
		Locale: "pt",
		Exp:    time.Now().Add(time.Hour).Unix(),
	})

	claims, err := VerifyJWT(testSecret, token)
	if err != nil {
		t.Fatalf("VerifyJWT returned error: %v", err)
	}
	if claims.Sub != "user-1" || claims.Plan != "pro" || claims.Locale != "pt" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyJWTRejectsTamperedToken(t *testing.T) {
	token := signedToken(t, TokenClaims{Sub: "user-1"})
	if _, err := VerifyJWT(testSecret, token+"x"); err == nil {
		t.Fatal("tampered token was accepted")
	}
	if _, err := VerifyJWT("other-secret", token); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
	if _, err := VerifyJWT(testSecret, "not-a-token"); err == nil {
		t.Fatal("malformed token was accepted")
	}
}

func TestVerifyJWTRejectsExpiredToken(t *testing.T) {
	token := signedToken(t, TokenClaims{Sub: "user-1", Exp: time.Now().Add(-time.Minute).Unix()})
	if _, err := VerifyJWT(testSecret, token); err == nil {
		t.Fatal("expired token was accepted")
	}
}

func TestAuthJWTMiddleware(t *testing.T) {
	var gotUser, gotLocale string
	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotLocale = LocaleFromContext(r.Context())
	}))

	token := signedToken(t, TokenClaims{Sub: "user-1", Locale: "pt", Exp: time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != "user-1" {
		t.Fatalf("user = %q, want user-1", gotUser)
	}
	if gotLocale != "pt" {
		t.Fatalf("locale = %q, want pt", gotLocale)
	}
}

func TestAuthJWTMiddlewareRejections(t *testing.T) {
	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without valid token")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not.a.token"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}
