package publishers

import (
	"time"

	"github.com/samvad-hq/vidqueue-client/pkg/vidqueue"
)

// AttributeStatus is the message attribute carrying the download status on
// queue and topic sinks, so subscribers can filter without parsing the body.
const AttributeStatus = "download_status"

// Event announces that a download reached a terminal status.
type Event struct {
	DownloadID   string            `json:"download_id"`
	URL          string            `json:"url"`
	Status       string            `json:"status"`
	Title        string            `json:"title,omitempty"`
	Filename     string            `json:"filename,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Source       string            `json:"source"`
	Download     vidqueue.Download `json:"download"`
	ObservedAt   time.Time         `json:"observed_at"`
}

// NewEvent constructs an Event for a download observed on the backend at source.
func NewEvent(source string, d vidqueue.Download) Event {
	return Event{
		DownloadID:   d.ID,
		URL:          d.URL,
		Status:       d.Status,
		Title:        d.Title,
		Filename:     d.Filename,
		ErrorMessage: d.ErrorMessage,
		Source:       source,
		Download:     d,
		ObservedAt:   time.Now().UTC(),
	}
}
