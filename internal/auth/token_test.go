package auth

import (
	"testing"
	"time"
)

func TestMintAndValidateToken(t *testing.T) {
	token, err := MintToken("user_1", "user_1@example.com", "secret", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "user_1" {
		t.Errorf("userId = %q", claims.UserID)
	}
	if claims.Email != "user_1@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := MintToken("user_1", "user_1@example.com", "secret", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ValidateToken(token, "other-secret"); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := MintToken("user_1", "user_1@example.com", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ValidateToken(token, "secret"); err == nil {
		t.Error("expected validation to fail for an expired token")
	}
}

func TestInspectExpiry(t *testing.T) {
	token, err := MintToken("user_1", "user_1@example.com", "secret", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	exp, err := InspectExpiry(token)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	until := time.Until(exp)
	if until < 55*time.Minute || until > 65*time.Minute {
		t.Errorf("expiry %s not about an hour away", exp)
	}

	if _, err := InspectExpiry("not-a-token"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}
