package jwt

import (
	"encoding/json"
	"math"
	"time"
)

// TimeClaim reads a NumericDate claim (seconds since epoch).
// JSON decoding produces float64, but json.Number and integer types are
// accepted too so callers can pass claim sets built in memory.
func TimeClaim(claims map[string]any, name string) (time.Time, bool) {
	v, ok := claims[name]
	if !ok {
		return time.Time{}, false
	}

	var sec float64
	switch n := v.(type) {
	case float64:
		sec = n
	case int64:
		return time.Unix(n, 0), true
	case int:
		return time.Unix(int64(n), 0), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return time.Time{}, false
		}
		sec = f
	default:
		return time.Time{}, false
	}

	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return time.Time{}, false
	}
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9)), true
}

// CheckTime validates the exp and nbf claims of a map-based claim set.
// Absent claims are ignored.
func CheckTime(claims map[string]any, now time.Time) error {
	if exp, ok := TimeClaim(claims, ClaimExpiresAt); ok && !now.Before(exp) {
		return ErrExpiredToken
	}
	if nbf, ok := TimeClaim(claims, ClaimNotBefore); ok && now.Before(nbf) {
		return ErrInvalidToken
	}
	return nil
}
