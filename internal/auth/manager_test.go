package auth

import (
	"testing"
	"time"
)

func TestSignParseRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Sign("user-1", true)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	id, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id.UserID != "user-1" {
		t.Errorf("user id = %q, want user-1", id.UserID)
	}
	if !id.Admin {
		t.Errorf("expected admin claim to survive the round trip")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Sign("user-1", false)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := NewManager("secret", -time.Minute).Sign("user-1", false)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewManager("secret", time.Hour).Parse(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}
