// Package webhook posts flat diagnostic records to an automation hook
// (Zapier catch hooks in production).
package webhook

import (
	"context"
	"fmt"
	"time"

	commonhttp "resolution-diagnostic/internal/common/http"
)

type Client struct {
	url  string
	http *commonhttp.Client
}

// Reply is what a catch hook answers with. Zapier returns
// {"status":"success","id":...,"request_id":...}.
type Reply struct {
	StatusCode int
	Body       string
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		http: commonhttp.NewClient(timeout, "resolution-diagnostic/1"),
	}
}

// Configured reports whether a hook URL is set.
func (c *Client) Configured() bool { return c != nil && c.url != "" }

// Send posts record as JSON. Any non-2xx reply is returned as an error
// carrying the status code.
func (c *Client) Send(ctx context.Context, record interface{}) (*Reply, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("webhook url not configured")
	}

	resp, err := c.http.PostJSON(ctx, c.url, record)
	if err != nil {
		return nil, err
	}

	reply := &Reply{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	if !resp.OK() {
		return reply, &StatusError{StatusCode: resp.StatusCode, Body: reply.Body}
	}
	return reply, nil
}

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook rejected record (status %d): %s", e.StatusCode, e.Body)
}
