package vidqueue

import (
	"context"
	"net/http"
)

// Videos lists downloaded video files, most recently modified first.
func (c *Client) Videos(ctx context.Context) (any, error) {
	return c.call(ctx, request{
		op:       "get videos",
		method:   http.MethodGet,
		path:     "/videos",
		fallback: "Get videos failed",
	})
}

// VideoURL returns the streaming URL of filename. It performs no request.
func (c *Client) VideoURL(filename string) string {
	return c.base + videoPath(filename)
}

// RenameVideo renames filename to newName. The backend keeps the original
// extension when newName lacks it.
func (c *Client) RenameVideo(ctx context.Context, filename, newName string) (any, error) {
	return c.call(ctx, request{
		op:       "rename video",
		method:   http.MethodPut,
		path:     videoPath(filename) + "/rename?new_name=" + escapeComponent(newName),
		fallback: "Rename failed",
	})
}

// DeleteVideo removes filename from the download directory.
func (c *Client) DeleteVideo(ctx context.Context, filename string) (any, error) {
	return c.call(ctx, request{
		op:       "delete video",
		method:   http.MethodDelete,
		path:     videoPath(filename),
		fallback: "Delete failed",
	})
}

func videoPath(filename string) string {
	return "/videos/" + escapeComponent(filename)
}
