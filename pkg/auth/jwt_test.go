package auth

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := NewSessionToken("staff@example.com", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := ParseSessionToken(token, "test-secret")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if claims.Email != "staff@example.com" {
		t.Fatalf("expected email claim, got %q", claims.Email)
	}
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	token, err := NewSessionToken("staff@example.com", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := ParseSessionToken(token, "other-secret"); err == nil {
		t.Fatalf("expected an error for a wrong secret")
	}
}

func TestParseSessionTokenExpired(t *testing.T) {
	token, err := NewSessionToken("staff@example.com", "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := ParseSessionToken(token, "test-secret"); err == nil {
		t.Fatalf("expected an error for an expired token")
	}
}

func TestParseSessionTokenGarbage(t *testing.T) {
	if _, err := ParseSessionToken("not-a-token", "test-secret"); err == nil {
		t.Fatalf("expected an error for malformed input")
	}
}
