package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reHexAddress = regexp.MustCompile(`^0x[0-9a-fA-F]{4,40}$`)
	reDevHandle  = regexp.MustCompile(`^[A-Za-z0-9_-]{3,64}$`)
	reKind       = regexp.MustCompile(`^[a-z]+(\.[a-z]+)*$`)
)

// ProductName trims and bounds a listing name. Empty names are rejected
// here at the edge and again by the ledger itself.
func ProductName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 120 {
		return "", false
	}
	return s, true
}

// Price accepts only strictly positive amounts in the smallest unit.
func Price(v int64) bool { return v > 0 }

// Amount validates faucet/deposit amounts.
func Amount(v int64) bool { return v > 0 }

// ProductID parses a route param into a positive product id.
func ProductID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Address validates a principal identifier: a 0x-prefixed hex wallet
// address, or a plain dev handle. Anything starting with 0x must be hex.
func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s, reHexAddress.MatchString(s)
	}
	return s, reDevHandle.MatchString(s)
}

// EventKind validates an event kind filter (e.g. "product.listed").
func EventKind(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reKind.MatchString(s)
}

// Seq parses an event cursor; absent/garbage means "from the beginning".
func Seq(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Limit clamps a page size to a sane window.
func Limit(s string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
