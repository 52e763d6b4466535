package vidqueue

import (
	"context"
	"net/http"
	"strconv"
)

// History lists completed and failed downloads using the backend's default
// page size.
func (c *Client) History(ctx context.Context) (any, error) {
	return c.call(ctx, request{
		op:       "get history",
		method:   http.MethodGet,
		path:     "/history",
		fallback: "Get history failed",
	})
}

// HistoryWithLimit lists at most limit history records. A non-positive limit
// behaves like History.
func (c *Client) HistoryWithLimit(ctx context.Context, limit int) (any, error) {
	if limit <= 0 {
		return c.History(ctx)
	}
	return c.call(ctx, request{
		op:       "get history",
		method:   http.MethodGet,
		path:     "/history?limit=" + strconv.Itoa(limit),
		fallback: "Get history failed",
	})
}

// ClearHistory removes every completed and failed record.
func (c *Client) ClearHistory(ctx context.Context) (any, error) {
	return c.call(ctx, request{
		op:       "clear history",
		method:   http.MethodDelete,
		path:     "/history",
		fallback: "Clear history failed",
	})
}
