package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: webhook-off
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: webhook
    type: HTTP
    http:
      url: " https://example.com/2 "
      headers:
        X-Token: abc
        Empty: ""
  - id: alerts
    type: sns
    sns:
      topic_arn: arn:aws:sns:eu-west-1:123:downloads
      region: eu-west-1
      credentials:
        access_key_id: AKIA
        secret_access_key: secret
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "webhook" || enabled[1].ID != "alerts" {
		t.Fatalf("unexpected enabled publishers %#v", enabled)
	}

	webhook := enabled[0]
	if webhook.Type != TypeHTTP || webhook.HTTP.URL != "https://example.com/2" {
		t.Fatalf("http config not sanitized: %#v", webhook.HTTP)
	}
	if webhook.HTTP.Method != "POST" || webhook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %#v", webhook.HTTP)
	}
	if len(webhook.HTTP.Headers) != 1 {
		t.Fatalf("expected empty header dropped, got %#v", webhook.HTTP.Headers)
	}

	alerts, ok := reg.ByID("alerts")
	if !ok || alerts.SNS.Credentials.AccessKeyID != "AKIA" {
		t.Fatalf("sns credentials not loaded: %#v", alerts)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.json")
	raw := `{"publishers":[{"id":"ps","type":"pubsub","pubsub":{"project_id":"p","topic":"downloads"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 1 || reg.All()[0].PubSub.Topic != "downloads" {
		t.Fatalf("unexpected registry %#v", reg.All())
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: dup
    type: http
    http: {url: "https://a.example"}
  - id: dup
    type: http
    http: {url: "https://b.example"}
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  PublisherConfig
	}{
		{"missing http block", PublisherConfig{ID: "h1", Type: TypeHTTP}},
		{"sqs without region", PublisherConfig{ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://sqs"}}},
		{"sns without topic", PublisherConfig{ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "eu-west-1"}}},
		{"pubsub without topic", PublisherConfig{ID: "p1", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}}},
		{"unknown type", PublisherConfig{ID: "k1", Type: "kafka"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validatePublisherConfig(tc.cfg); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
