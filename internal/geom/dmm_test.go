package geom

import (
	"errors"
	"testing"
)

func TestDecodeDMM(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"4023.6174N", 40.39362333},
		{"07923.6174W", -79.39362333},
		{"4023.6174S", -40.39362333},
		{"07923.6174E", 79.39362333},
		{"04023.6174N", 40.39362333},   // leading zero, three degree digits
		{"  4023.6174n ", 40.39362333}, // trimmed, case-insensitive
		{"0000.0N", 0},
		{"17959.9999E", 179.99999833},
	}
	for _, tc := range tests {
		got, err := DecodeDMM(tc.in)
		if err != nil {
			t.Errorf("DecodeDMM(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("DecodeDMM(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDecodeDMMInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"abc",
		"4023N",        // no minute fraction
		"4023.6174X",   // bad hemisphere
		"4023.6174",    // no hemisphere
		"4023.6174NN",  // trailing characters
		"4023.N",       // empty fraction
		"4A23.6174N",   // non-numeric degrees
		"123423.6174E", // too many degree digits
		"N4023.6174",
		"40.39362333",
	} {
		if v, err := DecodeDMM(in); !errors.Is(err, ErrInvalidDMM) {
			t.Errorf("DecodeDMM(%q) = %v, %v; want ErrInvalidDMM", in, v, err)
		}
	}
}

func TestDecodeDMMDeterministic(t *testing.T) {
	a, errA := DecodeDMM("5130.4440N")
	b, errB := DecodeDMM("5130.4440N")
	if errA != nil || errB != nil || a != b {
		t.Fatalf("got (%v, %v) and (%v, %v)", a, errA, b, errB)
	}
}

// Sign follows the hemisphere and magnitude stays within one degree of the
// degree field for minutes below 60.
func TestDecodeDMMSignAndMagnitude(t *testing.T) {
	tests := []struct {
		in       string
		deg      float64
		negative bool
	}{
		{"8959.9999N", 89, false},
		{"8959.9999S", 89, true},
		{"18000.0000E", 180, false},
		{"18000.0000W", 180, true},
		{"0030.5000S", 0, true},
	}
	for _, tc := range tests {
		v, err := DecodeDMM(tc.in)
		if err != nil {
			t.Fatalf("DecodeDMM(%q): %v", tc.in, err)
		}
		if tc.negative && v > 0 || !tc.negative && v < 0 {
			t.Errorf("DecodeDMM(%q) = %v has wrong sign", tc.in, v)
		}
		abs := v
		if abs < 0 {
			abs = -abs
		}
		if abs < tc.deg || abs > tc.deg+1 {
			t.Errorf("DecodeDMM(%q) = %v outside [%v, %v]", tc.in, v, tc.deg, tc.deg+1)
		}
	}
}
