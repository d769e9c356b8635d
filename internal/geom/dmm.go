package geom

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidDMM = errors.New("invalid DMM coordinate")

// degrees (2-3 digits), minutes (2 digits, '.', fraction), hemisphere
var dmmPattern = regexp.MustCompile(`^(\d{2,3})(\d{2}\.\d+)([NSEW])$`)

// DecodeDMM converts a degree-minutes token such as "4023.6174N" or
// "07923.6174W" to signed decimal degrees rounded to 8 places.
// The degree width is settled by the pattern, never by the hemisphere letter.
func DecodeDMM(s string) (float64, error) {
	c := strings.ToUpper(strings.TrimSpace(s))
	m := dmmPattern.FindStringSubmatch(c)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDMM, s)
	}
	deg, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: degrees %q", ErrInvalidDMM, m[1])
	}
	minutes, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: minutes %q", ErrInvalidDMM, m[2])
	}
	v := float64(deg) + minutes/60
	if m[3] == "S" || m[3] == "W" {
		v = -v
	}
	v = round8(v)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidDMM, s)
	}
	return v, nil
}

// round8 rounds half away from zero at the 8th decimal (sub-millimetre).
func round8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}
