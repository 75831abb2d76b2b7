package utils

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals the plain password")
	}
	if !VerifyPassword(hash, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	tok, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("mint refresh token: %v", err)
	}
	if len(tok.Raw) != 96 {
		t.Errorf("raw token length = %d, want 96 hex chars", len(tok.Raw))
	}
	h1 := HashRefreshRaw(tok.Raw)
	h2 := HashRefreshRaw(tok.Raw)
	if h1 != h2 {
		t.Error("hashing is not deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
	if h1 == tok.Raw[:64] {
		t.Error("hash looks like a prefix of the raw token")
	}

	other, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("mint refresh token: %v", err)
	}
	if other.Raw == tok.Raw {
		t.Error("two refresh tokens collided")
	}
}
