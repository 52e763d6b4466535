package vidqueue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	Op         string
	StatusCode int
	// Detail is the server supplied message, or the operation's fallback text
	// when the body carries none.
	Detail string
}

func (e *APIError) Error() string { return e.Detail }

// String includes the operation and status for logs.
func (e *APIError) String() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Detail)
}

func newAPIError(op string, status int, body []byte, fallback string) *APIError {
	return &APIError{
		Op:         op,
		StatusCode: status,
		Detail:     errorDetail(body, fallback),
	}
}

// errorDetail extracts the "detail" member of an error body. Falsy or missing
// values yield fallback; structured values (validation error lists) are kept
// as compact JSON.
func errorDetail(body []byte, fallback string) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	switch d := payload.Detail.(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(d) == "" {
			return fallback
		}
		return d
	case bool:
		if !d {
			return fallback
		}
	case float64:
		if d == 0 {
			return fallback
		}
	}

	raw, err := json.Marshal(payload.Detail)
	if err != nil {
		return fallback
	}
	return string(raw)
}
