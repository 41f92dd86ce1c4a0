package naming

import (
	"strings"
	"testing"
)

func TestShortHash(t *testing.T) {
	if got := ShortHash("imgapp", 6); len(got) != 6 {
		t.Errorf("ShortHash length = %d, want 6", len(got))
	}
	if ShortHash("a", 6) == ShortHash("b", 6) {
		t.Error("different inputs should produce different hashes")
	}
	if ShortHash("same", 6) != ShortHash("same", 6) {
		t.Error("hash must be deterministic")
	}
	// n larger than the digest is clamped, not padded
	if got := ShortHash("x", 100); len(got) != 40 {
		t.Errorf("clamped hash length = %d, want 40", len(got))
	}
}

func TestSanitizeAlnum(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"imgapp", "imgapp"},
		{"Img-App_01", "imgapp01"},
		{"UPPER", "upper"},
		{"--..--", ""},
	}
	for _, tt := range tests {
		if got := SanitizeAlnum(tt.in); got != tt.want {
			t.Errorf("SanitizeAlnum(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegistryName(t *testing.T) {
	name := RegistryName("img-app", "entropy-1")
	if len(name) < 5 || len(name) > 50 {
		t.Errorf("registry name %q length out of Azure bounds", name)
	}
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			t.Errorf("registry name %q contains non-alphanumeric %q", name, r)
		}
	}
	if !strings.HasPrefix(name, "imgapp") {
		t.Errorf("registry name %q should start with the sanitized app name", name)
	}

	// Different entropy, different name.
	if RegistryName("img-app", "entropy-1") == RegistryName("img-app", "entropy-2") {
		t.Error("different entropy should yield different registry names")
	}

	// Long app names stay within the 50-char limit.
	long := RegistryName(strings.Repeat("a", 80), "e")
	if len(long) != 50 {
		t.Errorf("long registry name length = %d, want 50", len(long))
	}

	// Degenerate app names fall back to "app" plus the 6-char suffix,
	// which already clears the 5-char minimum.
	empty := RegistryName("--", "e")
	if !strings.HasPrefix(empty, "app") || len(empty) != 9 {
		t.Errorf("degenerate registry name = %q, want app + 6-char suffix", empty)
	}
}

func TestEnvironmentName(t *testing.T) {
	if got := EnvironmentName("imgapp"); got != "imgapp-env" {
		t.Errorf("EnvironmentName() = %q, want %q", got, "imgapp-env")
	}
}
