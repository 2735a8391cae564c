package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// testParams keeps hashing cheap in tests.
var testParams = HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHash(t *testing.T) {
	hash, err := NewPasswordHasher(DefaultHashParams()).Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("Hash() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[2] != "v=19" {
		t.Errorf("Hash() version = %q, want %q", parts[2], "v=19")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("Hash() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestVerifyCorrectAndWrong(t *testing.T) {
	h := NewPasswordHasher(testParams)

	hash, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if !h.Verify("pw123", hash) {
		t.Error("Verify() returned false for correct password")
	}
	if h.Verify("wrong", hash) {
		t.Error("Verify() returned true for wrong password")
	}
	if h.Verify("", hash) {
		t.Error("Verify() returned true for empty password")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := NewPasswordHasher(testParams)

	hash1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	hash2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for same password (salt should differ)")
	}
	if !h.Verify("same-password", hash1) || !h.Verify("same-password", hash2) {
		t.Error("both salted hashes should verify")
	}
	if h.Verify("other-password", hash1) || h.Verify("other-password", hash2) {
		t.Error("salted hashes should not verify a different password")
	}
}

func TestVerifyUsesStoredParams(t *testing.T) {
	stored, err := NewPasswordHasher(testParams).Hash("pw")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	// A hasher configured differently still verifies hashes made with older parameters.
	if !NewPasswordHasher(DefaultHashParams()).Verify("pw", stored) {
		t.Error("Verify() should use parameters encoded in the hash")
	}
}

func TestVerifyMalformedHashFailsClosed(t *testing.T) {
	h := NewPasswordHasher(testParams)

	tests := []string{
		"",
		"invalid-hash-format",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
		"$2a$10$tooshort",
	}

	for _, encoded := range tests {
		if h.Verify("password", encoded) {
			t.Errorf("Verify() returned true for malformed hash %q", encoded)
		}
	}
}

func TestVerifyLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("pw123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword() unexpected error: %v", err)
	}

	h := NewPasswordHasher(testParams)
	if !h.Verify("pw123", string(legacy)) {
		t.Error("Verify() returned false for matching bcrypt hash")
	}
	if h.Verify("wrong", string(legacy)) {
		t.Error("Verify() returned true for non-matching bcrypt hash")
	}
}

func TestDecodeHashErrors(t *testing.T) {
	if _, _, _, err := decodeHash("$argon2id$v=18$m=1,t=1,p=1$c2FsdA$a2V5"); err != ErrIncompatibleVersion {
		t.Errorf("decodeHash() error = %v, want %v", err, ErrIncompatibleVersion)
	}
	if _, _, _, err := decodeHash("nope"); err != ErrInvalidHashFormat {
		t.Errorf("decodeHash() error = %v, want %v", err, ErrInvalidHashFormat)
	}
}
