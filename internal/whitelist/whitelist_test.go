package whitelist

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestIsWhitelisted(t *testing.T) {
	checker := NewChecker([]string{" Example.com ", "boss@corp.org", "", "@trusted.net"}, zaptest.NewLogger(t))

	tests := []struct {
		from string
		want bool
	}{
		{"alice@example.com", true},
		{"ALICE@EXAMPLE.COM", true},
		{"Alice <alice@example.com>", true},
		{"<bob@example.com>", true},
		{"boss@corp.org", true},
		{"intern@corp.org", false},
		{"someone@trusted.net", true},
		{"alice@sub.example.com", false},
		{"not-an-address", false},
		{"", false},
		{"user@", false},
	}

	for _, tt := range tests {
		if got := checker.IsWhitelisted(tt.from); got != tt.want {
			t.Errorf("IsWhitelisted(%q) = %v, want %v", tt.from, got, tt.want)
		}
	}
}

func TestEmptyWhitelist(t *testing.T) {
	checker := NewChecker(nil, nil)
	if checker.Len() != 0 {
		t.Fatalf("expected empty checker, got %d entries", checker.Len())
	}
	if checker.IsWhitelisted("alice@example.com") {
		t.Error("empty whitelist should not match")
	}
}
