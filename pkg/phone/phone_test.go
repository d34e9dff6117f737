package phone

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"national french mobile", "06 12 34 56 78", "+33612345678"},
		{"national with dots", "06.12.34.56.78", "+33612345678"},
		{"already e164", "+33612345678", "+33612345678"},
		{"foreign number with country code", "+41 79 123 45 67", "+41791234567"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"unparseable kept as typed", "poste 42", "poste 42"},
		{"trimmed before keeping", "  poste 42  ", "poste 42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+33 6 12-34-56-78", "33612345678"},
		{"(06) 12.34", "061234"},
		{"no digits", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Digits(tt.in); got != tt.want {
			t.Errorf("Digits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
