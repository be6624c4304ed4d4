package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var errNotFinite = errors.New("amount must be a finite number")

// ParseAmount parses user-entered price text. Surrounding whitespace is
// ignored; NaN and infinities are rejected so they never reach the ledger.
func ParseAmount(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}
