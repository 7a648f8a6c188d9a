package domain

import (
	"strings"
	"testing"
)

func TestNewPassword_Rules(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expectErr bool
	}{
		{name: "valid", raw: "Passw0rd"},
		{name: "valid long", raw: "Correct-Horse-Battery-1"},
		{name: "too short", raw: "Pa1", expectErr: true},
		{name: "no uppercase", raw: "passw0rd", expectErr: true},
		{name: "no lowercase", raw: "PASSW0RD", expectErr: true},
		{name: "no digit", raw: "Password", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPassword(tt.raw)
			if tt.expectErr && err == nil {
				t.Fatalf("expected error for %q", tt.raw)
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.raw, err)
			}
			if tt.expectErr && !IsValidationError(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestPassword_HashVerifyRoundTrip(t *testing.T) {
	pwd, err := NewPassword("Sup3rSecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hash, err := pwd.Hash()
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.Contains(hash, ":") {
		t.Fatalf("expected salt:digest format, got %q", hash)
	}
	if !pwd.Verify(hash) {
		t.Error("verify(hash()) must be true")
	}

	other, _ := NewPassword("Differ3nt1")
	if other.Verify(hash) {
		t.Error("different password must not verify")
	}
}

func TestPassword_SaltRandomness(t *testing.T) {
	pwd, _ := NewPassword("Sup3rSecret")
	h1, err := pwd.Hash()
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	h2, err := pwd.Hash()
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password must differ")
	}
	if !pwd.Verify(h1) || !pwd.Verify(h2) {
		t.Error("both hashes must verify")
	}
}

func TestPassword_VerifyMalformed(t *testing.T) {
	pwd, _ := NewPassword("Sup3rSecret")
	malformed := []string{"", "no-separator", "nothex:abcd", "abcd:nothex", ":", "a:b:c"}
	for _, h := range malformed {
		if pwd.Verify(h) {
			t.Errorf("malformed hash %q must not verify", h)
		}
	}
}
