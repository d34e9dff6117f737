package scancode

import (
	"strings"
	"testing"
)

func TestNewShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := New()
		if len(code) != length {
			t.Fatalf("len(%q) = %d, want %d", code, len(code), length)
		}
		for _, r := range code {
			if !strings.ContainsRune(alphabet, r) {
				t.Fatalf("code %q contains %q, outside the alphabet", code, r)
			}
		}
	}
}

func TestNewDoesNotRepeat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := New()
		if seen[code] {
			t.Fatalf("code %q issued twice", code)
		}
		seen[code] = true
	}
}
