package vidqueue

import (
	"context"
	"net/http"
)

func (c *Client) StartDownload(ctx context.Context) (any, error) {
	return c.call(ctx, request{
		op:       "start download",
		method:   http.MethodPost,
		path:     "/download/start",
		fallback: "Start failed",
	})
}

func (c *Client) StopDownload(ctx context.Context) (any, error) {
	return c.call(ctx, request{
		op:       "stop download",
		method:   http.MethodPost,
		path:     "/download/stop",
		fallback: "Stop failed",
	})
}

// DownloadStatus reports the state of the backend download worker.
func (c *Client) DownloadStatus(ctx context.Context) (any, error) {
	return c.call(ctx, request{
		op:       "get download status",
		method:   http.MethodGet,
		path:     "/download/status",
		fallback: "Get status failed",
	})
}
