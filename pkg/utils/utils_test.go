package utils

import (
	"errors"
	"strings"
	"testing"
)

// cheap params keep the suite fast; verification reads params from the hash
var testParams = PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPasswordWith("pw1", testParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if strings.Contains(hash, "pw1") {
		t.Fatal("hash must not contain the plaintext")
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected encoding %q", hash)
	}

	ok, err := VerifyPassword("pw1", hash)
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	a, _ := HashPasswordWith("same", testParams)
	b, _ := HashPasswordWith("same", testParams)
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestDefaultParamsRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if ok, _ := VerifyPassword("secret", hash); !ok {
		t.Fatal("expected match with default params")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, bad := range []string{
		"",
		"plaintext",
		"$2a$10$abcdefghijklmnopqrstuv",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
	} {
		if _, err := VerifyPassword("x", bad); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("VerifyPassword(%q) err = %v, want ErrInvalidHash", bad, err)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	valid := []string{"alice", "bob_99", "A1c", strings.Repeat("x", 20)}
	for _, u := range valid {
		if err := ValidateUsername(u); err != nil {
			t.Errorf("ValidateUsername(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{"ab", strings.Repeat("x", 21), "has space", "a/b", "_lead", "al!ce"}
	for _, u := range invalid {
		err := ValidateUsername(u)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "username" {
			t.Errorf("ValidateUsername(%q) = %v, want username ValidationError", u, err)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  A@X.com "); got != "a@x.com" {
		t.Fatalf("unexpected %q", got)
	}
}
