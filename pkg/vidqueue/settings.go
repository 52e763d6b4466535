package vidqueue

import (
	"context"
	"net/http"
)

// Settings returns the backend download settings.
func (c *Client) Settings(ctx context.Context) (any, error) {
	return c.call(ctx, request{
		op:       "get settings",
		method:   http.MethodGet,
		path:     "/settings",
		fallback: "Get settings failed",
	})
}

// UpdateSettings sends settings as the JSON body of a PUT. Any JSON-encodable
// value is accepted; SettingsUpdate omits the fields left nil.
func (c *Client) UpdateSettings(ctx context.Context, settings any) (any, error) {
	if settings == nil {
		settings = map[string]any{}
	}
	return c.call(ctx, request{
		op:       "update settings",
		method:   http.MethodPut,
		path:     "/settings",
		payload:  settings,
		fallback: "Update settings failed",
	})
}
