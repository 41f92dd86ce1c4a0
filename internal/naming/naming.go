package naming

// Package naming provides centralized generation of the short hashes and
// cloud resource names used by the ACA provider driver. Keeping the logic
// here allows future changes (length/algorithm) without touching call sites.

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// defaultLength defines the hex length of short hashes (bits ~ length * 4).
const defaultLength = 6

// Azure Container Registry name length cap.
const registryNameMax = 50

// ShortHash returns the hex SHA1 prefix of length n (clamped to digest size).
func ShortHash(s string, n int) string {
	sum := sha1.Sum([]byte(s))
	h := fmt.Sprintf("%x", sum)
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}

// SanitizeAlnum lowercases s and strips every character outside [a-z0-9].
func SanitizeAlnum(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RegistryName synthesizes a container registry name from an application name
// and an entropy string. Registry names must be globally unique, alphanumeric
// only and 5-50 characters, so the result is <app><suffix> with the app part
// truncated to fit and the suffix derived from the entropy. The "app"
// fallback base plus the 6-char suffix keeps the result above the 5-char
// floor in every case.
func RegistryName(app, entropy string) string {
	suffix := ShortHash(entropy, defaultLength)
	base := SanitizeAlnum(app)
	if base == "" {
		base = "app"
	}
	if len(base)+len(suffix) > registryNameMax {
		base = base[:registryNameMax-len(suffix)]
	}
	return base + suffix
}

// EnvironmentName derives the managed environment name from the application name.
func EnvironmentName(app string) string {
	return app + "-env"
}
