package identity

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}
	return raw
}

func TestParseIdentityClaims(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{
		"oid":                "user-object-id",
		"tid":                "tenant-id",
		"preferred_username": "user@contoso.com",
	})

	accountID, email, err := parseIdentityClaims(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accountID != "user-object-id.tenant-id" {
		t.Errorf("accountID = %q", accountID)
	}
	if email != "user@contoso.com" {
		t.Errorf("email = %q", email)
	}
}

func TestParseIdentityClaimsWithoutTenant(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{
		"oid":                "user-object-id",
		"preferred_username": "user@contoso.com",
	})

	accountID, _, err := parseIdentityClaims(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accountID != "user-object-id" {
		t.Errorf("accountID = %q, want bare oid without tenant suffix", accountID)
	}
}

func TestParseIdentityClaimsRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"missing oid", jwt.MapClaims{"preferred_username": "user@contoso.com"}},
		{"missing email", jwt.MapClaims{"oid": "user-object-id"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseIdentityClaims(signedToken(t, tt.claims)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, _, err := parseIdentityClaims(""); err == nil {
		t.Error("expected error for empty token")
	}
}
