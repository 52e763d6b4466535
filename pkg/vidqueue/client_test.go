package vidqueue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/samvad-hq/vidqueue-client/pkg/httpclient"
)

// recordedRequest captures what the backend saw.
type recordedRequest struct {
	method      string
	requestURI  string
	contentType string
	body        []byte
}

// fakeBackend answers every request with a fixed status and body.
type fakeBackend struct {
	mu     sync.Mutex
	reqs   []recordedRequest
	status int
	body   string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.reqs = append(f.reqs, recordedRequest{
		method:      r.Method,
		requestURI:  r.RequestURI,
		contentType: r.Header.Get("Content-Type"),
		body:        raw,
	})
	status, body := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (f *fakeBackend) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reqs) == 0 {
		t.Fatalf("backend received no request")
	}
	return f.reqs[len(f.reqs)-1]
}

func newTestClient(t *testing.T, backend *fakeBackend) *Client {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL})
}

func TestClientOperationsHitDocumentedRoutes(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		call   func(c *Client) (any, error)
		method string
		uri    string
	}{
		{"add to queue", func(c *Client) (any, error) { return c.AddToQueue(ctx, []string{"http://x"}) }, http.MethodPost, "/api/queue"},
		{"queue", func(c *Client) (any, error) { return c.Queue(ctx) }, http.MethodGet, "/api/queue"},
		{"remove", func(c *Client) (any, error) { return c.RemoveFromQueue(ctx, "42") }, http.MethodDelete, "/api/queue/42"},
		{"remove encodes id", func(c *Client) (any, error) { return c.RemoveFromQueue(ctx, "a/b c") }, http.MethodDelete, "/api/queue/a%2Fb%20c"},
		{"retry", func(c *Client) (any, error) { return c.RetryDownload(ctx, "42") }, http.MethodPost, "/api/queue/42/retry"},
		{"history", func(c *Client) (any, error) { return c.History(ctx) }, http.MethodGet, "/api/history"},
		{"history limit", func(c *Client) (any, error) { return c.HistoryWithLimit(ctx, 10) }, http.MethodGet, "/api/history?limit=10"},
		{"clear history", func(c *Client) (any, error) { return c.ClearHistory(ctx) }, http.MethodDelete, "/api/history"},
		{"settings", func(c *Client) (any, error) { return c.Settings(ctx) }, http.MethodGet, "/api/settings"},
		{"update settings", func(c *Client) (any, error) { return c.UpdateSettings(ctx, map[string]any{"auto_remove": true}) }, http.MethodPut, "/api/settings"},
		{"start", func(c *Client) (any, error) { return c.StartDownload(ctx) }, http.MethodPost, "/api/download/start"},
		{"stop", func(c *Client) (any, error) { return c.StopDownload(ctx) }, http.MethodPost, "/api/download/stop"},
		{"status", func(c *Client) (any, error) { return c.DownloadStatus(ctx) }, http.MethodGet, "/api/download/status"},
		{"videos", func(c *Client) (any, error) { return c.Videos(ctx) }, http.MethodGet, "/api/videos"},
		{"rename", func(c *Client) (any, error) { return c.RenameVideo(ctx, "my clip.mp4", "new name") }, http.MethodPut, "/api/videos/my%20clip.mp4/rename?new_name=new%20name"},
		{"rename reserved chars", func(c *Client) (any, error) { return c.RenameVideo(ctx, "a&b?.mp4", "x+y=z") }, http.MethodPut, "/api/videos/a%26b%3F.mp4/rename?new_name=x%2By%3Dz"},
		{"delete", func(c *Client) (any, error) { return c.DeleteVideo(ctx, "a b.mp4") }, http.MethodDelete, "/api/videos/a%20b.mp4"},
		{"delete unicode", func(c *Client) (any, error) { return c.DeleteVideo(ctx, "影片.mp4") }, http.MethodDelete, "/api/videos/%E5%BD%B1%E7%89%87.mp4"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &fakeBackend{body: `{"message":"ok"}`}
			client := newTestClient(t, backend)

			if _, err := tc.call(client); err != nil {
				t.Fatalf("call: %v", err)
			}
			got := backend.last(t)
			if got.method != tc.method {
				t.Fatalf("method = %s, want %s", got.method, tc.method)
			}
			if got.requestURI != tc.uri {
				t.Fatalf("request uri = %s, want %s", got.requestURI, tc.uri)
			}
		})
	}
}

func TestAddToQueueSendsJSONBody(t *testing.T) {
	backend := &fakeBackend{body: `[]`}
	client := newTestClient(t, backend)

	if _, err := client.AddToQueue(context.Background(), []string{"http://x"}); err != nil {
		t.Fatalf("AddToQueue: %v", err)
	}
	got := backend.last(t)
	if got.contentType != "application/json" {
		t.Fatalf("content type = %q", got.contentType)
	}
	if string(got.body) != `{"urls":["http://x"]}` {
		t.Fatalf("body = %s", got.body)
	}
}

func TestUpdateSettingsOmitsUnsetFields(t *testing.T) {
	backend := &fakeBackend{body: `{"download_path":"./downloads"}`}
	client := newTestClient(t, backend)

	enabled := true
	if _, err := client.UpdateSettings(context.Background(), SettingsUpdate{HeadlessMode: &enabled}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	got := backend.last(t)
	if string(got.body) != `{"headless_mode":true}` {
		t.Fatalf("body = %s", got.body)
	}
	if got.contentType != "application/json" {
		t.Fatalf("content type = %q", got.contentType)
	}
}

func TestRequestsWithoutPayloadSendNoBody(t *testing.T) {
	backend := &fakeBackend{body: `{}`}
	client := newTestClient(t, backend)

	if _, err := client.StartDownload(context.Background()); err != nil {
		t.Fatalf("StartDownload: %v", err)
	}
	got := backend.last(t)
	if len(got.body) != 0 {
		t.Fatalf("expected empty body, got %q", got.body)
	}
	if got.contentType == "application/json" {
		t.Fatalf("unexpected json content type on bodiless request")
	}
}

func TestOperationsReturnParsedBodyUnmodified(t *testing.T) {
	payload := `[{"id":"1","url":"http://x","status":"pending","error_message":null,"extra":{"nested":[1,2.5,"s",true]}}]`
	backend := &fakeBackend{body: payload}
	client := newTestClient(t, backend)

	var want any
	if err := json.Unmarshal([]byte(payload), &want); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	ctx := context.Background()
	calls := map[string]func() (any, error){
		"queue":    func() (any, error) { return client.Queue(ctx) },
		"history":  func() (any, error) { return client.History(ctx) },
		"settings": func() (any, error) { return client.Settings(ctx) },
		"status":   func() (any, error) { return client.DownloadStatus(ctx) },
		"videos":   func() (any, error) { return client.Videos(ctx) },
		"clear":    func() (any, error) { return client.ClearHistory(ctx) },
	}
	for name, call := range calls {
		got, err := call()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s returned %#v, want %#v", name, got, want)
		}
	}
}

func TestRenameAndDeleteSurfaceServerDetail(t *testing.T) {
	backend := &fakeBackend{status: http.StatusNotFound, body: `{"detail":"not found"}`}
	client := newTestClient(t, backend)
	ctx := context.Background()

	_, err := client.RenameVideo(ctx, "a.mp4", "b")
	if err == nil || err.Error() != "not found" {
		t.Fatalf("rename error = %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound || apiErr.Op != "rename video" {
		t.Fatalf("expected APIError with status 404, got %#v", err)
	}

	_, err = client.DeleteVideo(ctx, "a.mp4")
	if err == nil || err.Error() != "not found" {
		t.Fatalf("delete error = %v", err)
	}
}

func TestRenameAndDeleteFallbackMessages(t *testing.T) {
	backend := &fakeBackend{status: http.StatusInternalServerError, body: `<html>oops</html>`}
	client := newTestClient(t, backend)
	ctx := context.Background()

	if _, err := client.RenameVideo(ctx, "a.mp4", "b"); err == nil || err.Error() != "Rename failed" {
		t.Fatalf("rename error = %v", err)
	}
	if _, err := client.DeleteVideo(ctx, "a.mp4"); err == nil || err.Error() != "Delete failed" {
		t.Fatalf("delete error = %v", err)
	}
}

func TestOtherOperationsReportStatusErrors(t *testing.T) {
	backend := &fakeBackend{status: http.StatusNotFound, body: `{"detail":"Download not found"}`}
	client := newTestClient(t, backend)

	_, err := client.RetryDownload(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Detail != "Download not found" || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected api error %#v", apiErr)
	}
}

func TestMalformedSuccessBodyIsDecodeError(t *testing.T) {
	backend := &fakeBackend{body: ``}
	client := newTestClient(t, backend)

	_, err := client.Queue(context.Background())
	if err == nil {
		t.Fatalf("expected decode error for empty body")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("decode failure must not be reported as APIError: %v", err)
	}
}

func TestVideoURLDoesNotIssueRequest(t *testing.T) {
	stub := &stubHTTPClient{}
	client := New(Options{HTTPClient: stub})

	if got := client.VideoURL("a b.mp4"); got != "/api/videos/a%20b.mp4" {
		t.Fatalf("VideoURL = %q", got)
	}
	if stub.calls != 0 {
		t.Fatalf("VideoURL issued %d requests", stub.calls)
	}

	withHost := New(Options{BaseURL: "http://localhost:8000/", APIPrefix: "api/", HTTPClient: stub})
	if got := withHost.VideoURL("x.mp4"); got != "http://localhost:8000/api/videos/x.mp4" {
		t.Fatalf("VideoURL with host = %q", got)
	}
}

func TestRequestWithoutBaseURLFails(t *testing.T) {
	stub := &stubHTTPClient{}
	client := New(Options{HTTPClient: stub})

	if _, err := client.Queue(context.Background()); !errors.Is(err, ErrNoBaseURL) {
		t.Fatalf("expected ErrNoBaseURL, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("transport should not be called")
	}
}

func TestTransportErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	client := New(Options{BaseURL: "http://backend", HTTPClient: &stubHTTPClient{err: boom}})

	_, err := client.StopDownload(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestCustomPrefixAndHeaders(t *testing.T) {
	stub := &stubHTTPClient{resp: stubResponse{status: http.StatusOK, body: []byte(`{}`)}}
	client := New(Options{BaseURL: "http://backend", APIPrefix: "/v2", UserAgent: "tester", HTTPClient: stub})

	if _, err := client.Settings(context.Background()); err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if stub.url != "http://backend/v2/settings" {
		t.Fatalf("url = %s", stub.url)
	}
	if stub.headers["User-Agent"] != "tester" {
		t.Fatalf("user agent = %q", stub.headers["User-Agent"])
	}
}

type stubResponse struct {
	status int
	body   []byte
}

func (s stubResponse) Body() []byte    { return s.body }
func (s stubResponse) StatusCode() int { return s.status }

type stubHTTPClient struct {
	calls   int
	url     string
	headers map[string]string
	resp    httpclient.Response
	err     error
}

func (s *stubHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	return s.Do(ctx, http.MethodGet, url, headers, nil)
}

func (s *stubHTTPClient) Do(_ context.Context, _ string, url string, headers map[string]string, _ []byte) (httpclient.Response, error) {
	s.calls++
	s.url = url
	s.headers = headers
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}
