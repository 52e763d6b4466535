package vidqueue

import (
	"context"
	"net/http"
)

type addToQueueRequest struct {
	URLs []string `json:"urls"`
}

// AddToQueue submits urls to the download queue. The backend skips URLs that
// are already pending or processing and returns the records it created.
func (c *Client) AddToQueue(ctx context.Context, urls []string) (any, error) {
	if urls == nil {
		urls = []string{}
	}
	return c.call(ctx, request{
		op:       "add to queue",
		method:   http.MethodPost,
		path:     "/queue",
		payload:  addToQueueRequest{URLs: urls},
		fallback: "Add to queue failed",
	})
}

// Queue lists pending and processing downloads, newest first.
func (c *Client) Queue(ctx context.Context) (any, error) {
	return c.call(ctx, request{
		op:       "get queue",
		method:   http.MethodGet,
		path:     "/queue",
		fallback: "Get queue failed",
	})
}

// RemoveFromQueue deletes the download with the given id.
func (c *Client) RemoveFromQueue(ctx context.Context, id string) (any, error) {
	return c.call(ctx, request{
		op:       "remove from queue",
		method:   http.MethodDelete,
		path:     "/queue/" + escapeComponent(id),
		fallback: "Remove failed",
	})
}

// RetryDownload resets a download to pending and clears its error.
func (c *Client) RetryDownload(ctx context.Context, id string) (any, error) {
	return c.call(ctx, request{
		op:       "retry download",
		method:   http.MethodPost,
		path:     "/queue/" + escapeComponent(id) + "/retry",
		fallback: "Retry failed",
	})
}
