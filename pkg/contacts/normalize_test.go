package contacts

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"+1 (555) 010-1234", "5550101234"},
		{"5550101234", "5550101234"},
		{"15550101234", "5550101234"},
		// Non-US country codes keep their prefix.
		{"+44 20 7946 0958", "442079460958"},
		{"no digits", ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.raw); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Sam.Jones@Example.COM "); got != "sam.jones@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"Sam@Example.com", "sam@example.com"},
		{"+1 555-010-1234", "5550101234"},
	}

	for _, tt := range tests {
		if got := NormalizeAddress(tt.raw); got != tt.want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeDisplayName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", ""},
		{"alex  chen", "Alex Chen"},
		{"  sam jones ", "Sam Jones"},
		// Existing interior capitals are preserved.
		{"ronald McDonald", "Ronald McDonald"},
	}

	for _, tt := range tests {
		if got := NormalizeDisplayName(tt.name); got != tt.want {
			t.Errorf("NormalizeDisplayName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
