package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("changeme123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if !VerifyPassword("changeme123", hash) {
		t.Fatalf("expected password verification to succeed")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Fatalf("did not expect wrong password to verify")
	}
}

func TestVerifyPassword_EmptyInputs(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("changeme123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if VerifyPassword("", hash) {
		t.Fatalf("did not expect empty password to verify")
	}
	if VerifyPassword("changeme123", "") {
		t.Fatalf("did not expect empty hash to verify")
	}
}
