package shared

import (
	"net/http"
	"time"

	"hrcore/internal/requestctx"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD and returns a UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		y, m, d := parsed.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", value)
}

func requestIDOf(r *http.Request) string {
	return requestctx.GetRequestID(r.Context())
}
