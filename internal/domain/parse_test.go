package domain

import (
	"testing"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	valid := map[string]float64{
		"10":     10,
		" 10.5 ": 10.5,
		"-2":     -2,
		"0":      0,
		"1e2":    100,
	}
	for in, want := range valid {
		got, err := ParseAmount(in)
		if err != nil {
			t.Errorf("ParseAmount(%q) unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseAmount(%q) got %v, want %v", in, got, want)
		}
	}

	for _, in := range []string{"", "abc", "10$", "NaN", "Inf", "-Infinity"} {
		if _, err := ParseAmount(in); err == nil {
			t.Errorf("ParseAmount(%q) expected error", in)
		}
	}
}
