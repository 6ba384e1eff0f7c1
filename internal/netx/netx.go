// Package netx holds the low-level network helpers shared by the gateway:
// the connectivity probe and the multipart photo-upload request builder.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Checker reports whether the device currently has network connectivity.
// The gateway consults it before every call so offline requests can
// short-circuit without dialing.
type Checker interface {
	Online(ctx context.Context) bool
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) bool

func (f CheckerFunc) Online(ctx context.Context) bool { return f(ctx) }

// ProbeChecker probes a URL with a HEAD request. Any response, whatever
// the status, counts as connectivity; only transport errors mean offline.
type ProbeChecker struct {
	URL    string
	Client *http.Client
}

func NewProbeChecker(url string, timeout time.Duration) *ProbeChecker {
	return &ProbeChecker{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (c *ProbeChecker) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.URL, nil)
	if err != nil {
		return false
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return true
}

// NewMultipartRequest builds a POST with a binary file part and a JSON
// metadata part, the layout the photo upload endpoint expects.
func NewMultipartRequest(ctx context.Context, url string, fileField, fileName string, file io.Reader, metaField string, meta []byte) (*http.Request, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile(fileField, fileName)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy file part: %w", err)
	}

	if err := w.WriteField(metaField, string(meta)); err != nil {
		return nil, fmt.Errorf("write metadata part: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}
