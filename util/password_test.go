package util

import "testing"

func TestGenerateSaltUnique(t *testing.T) {
	s1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	s2, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	if s1 == s2 {
		t.Fatalf("expected distinct salts, both %s", s1)
	}
	if len(s1) != saltLen*2 {
		t.Errorf("expected %d hex chars, got %d", saltLen*2, len(s1))
	}
}

func TestHashPasswordDeterministicPerSalt(t *testing.T) {
	h1, err := HashPassword("password", "00112233445566778899aabbccddeeff")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("password", "00112233445566778899aabbccddeeff")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected same hash for same salt, got %s vs %s", h1, h2)
	}
}

func TestHashPasswordDifferentSalts(t *testing.T) {
	h1, _ := HashPassword("password", "00112233445566778899aabbccddeeff")
	h2, _ := HashPassword("password", "ffeeddccbbaa99887766554433221100")
	if h1 == h2 {
		t.Fatalf("expected different hashes for different salts, both %s", h1)
	}
}

func TestHashPasswordBadSalt(t *testing.T) {
	if _, err := HashPassword("password", "not-hex"); err == nil {
		t.Fatal("expected error for malformed salt")
	}
}

func TestVerifyPassword(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	hash, err := HashPassword("s3cret", salt)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !VerifyPassword("s3cret", salt, hash) {
		t.Error("expected correct password to verify")
	}
	if VerifyPassword("wrong", salt, hash) {
		t.Error("expected wrong password to fail")
	}
	if VerifyPassword("s3cret", "not-hex", hash) {
		t.Error("expected malformed salt to fail verification")
	}
}
