package translation

import "testing"

func TestOpposite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "en", want: "it"},
		{in: "it", want: "en"},
		{in: " IT ", want: "en"},
		{in: "en-GB", want: "it"},
		{in: "fr", want: ""},
		{in: "", want: ""},
	}
	for _, tc := range tests {
		if got := Opposite(tc.in); got != tc.want {
			t.Fatalf("Opposite(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidatePair(t *testing.T) {
	t.Parallel()

	if err := validatePair("en", "it"); err != nil {
		t.Fatalf("en->it should be valid: %v", err)
	}
	if err := validatePair("it", "en"); err != nil {
		t.Fatalf("it->en should be valid: %v", err)
	}
	if err := validatePair("en", "en"); err == nil {
		t.Fatalf("en->en should be rejected")
	}
	if err := validatePair("es", "en"); err == nil {
		t.Fatalf("es->en should be rejected")
	}
}
