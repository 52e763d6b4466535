package vidqueue

// Download statuses reported by the backend.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Download is a queue or history record.
type Download struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Status       string `json:"status"`
	Title        string `json:"title,omitempty"`
	Filename     string `json:"filename,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	CompletedAt  string `json:"completed_at,omitempty"`
}

// Terminal reports whether the download reached completed or failed.
func (d Download) Terminal() bool {
	return d.Status == StatusCompleted || d.Status == StatusFailed
}

type Settings struct {
	DownloadPath     string `json:"download_path"`
	HeadlessMode     bool   `json:"headless_mode"`
	AutoRemove       bool   `json:"auto_remove"`
	ShowNotification bool   `json:"show_notification"`
}

// SettingsUpdate is a partial settings payload; nil fields are left unchanged
// by the backend.
type SettingsUpdate struct {
	DownloadPath     *string `json:"download_path,omitempty"`
	HeadlessMode     *bool   `json:"headless_mode,omitempty"`
	AutoRemove       *bool   `json:"auto_remove,omitempty"`
	ShowNotification *bool   `json:"show_notification,omitempty"`
}

// Video describes a file in the download directory. Timestamps are unix seconds.
type Video struct {
	Filename   string  `json:"filename"`
	Size       int64   `json:"size"`
	CreatedAt  float64 `json:"created_at"`
	ModifiedAt float64 `json:"modified_at"`
}

type Message struct {
	Message string `json:"message"`
}

type RenameResult struct {
	Message     string `json:"message"`
	NewFilename string `json:"new_filename"`
}
