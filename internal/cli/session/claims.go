package session

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

// Claims are the fields the client reads from a token payload. The
// signature is not checked; only the backend can do that.
type Claims struct {
	Subject string
	// Exp is the expiry in Unix seconds.
	Exp float64
}

var segmentParser = jwt.NewParser()

// DecodeClaims decodes the payload of a dot-separated token. It fails
// closed with domain.ErrTokenMalformed unless the token has exactly three
// segments and the payload carries a non-empty "sub" and a numeric "exp".
func DecodeClaims(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, domain.ErrTokenMalformed.WithDetails(fmt.Sprintf("%d segments", len(parts)))
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, domain.ErrTokenMalformed.WithCause(err)
	}

	var raw struct {
		Sub *string  `json:"sub"`
		Exp *float64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, domain.ErrTokenMalformed.WithCause(err)
	}
	if raw.Sub == nil || *raw.Sub == "" {
		return nil, domain.ErrTokenMalformed.WithDetails("missing sub")
	}
	if raw.Exp == nil || math.IsNaN(*raw.Exp) || math.IsInf(*raw.Exp, 0) {
		return nil, domain.ErrTokenMalformed.WithDetails("missing exp")
	}

	return &Claims{Subject: *raw.Sub, Exp: *raw.Exp}, nil
}

// Expired reports whether exp lies before now truncated to whole
// seconds. A token expiring in the current second is still valid.
func (c *Claims) Expired(now time.Time) bool {
	return c.Exp < float64(now.Unix())
}

// ExpiresAt returns exp as a time.
func (c *Claims) ExpiresAt() time.Time {
	sec, frac := math.Modf(c.Exp)
	return time.Unix(int64(sec), int64(frac*1e9))
}
