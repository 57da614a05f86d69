package language

import "testing"

func TestPrimary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "  ", want: ""},
		{in: "en", want: "en"},
		{in: " IT ", want: "it"},
		{in: "en_GB", want: "en"},
		{in: "it-IT", want: "it"},
		{in: "e", want: ""},
		{in: "e1", want: ""},
		{in: "-en", want: ""},
	}

	for _, tc := range tests {
		if got := Primary(tc.in); got != tc.want {
			t.Fatalf("Primary(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
