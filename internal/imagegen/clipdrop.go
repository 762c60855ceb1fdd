// Package imagegen talks to the ClipDrop text-to-image API.
package imagegen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const DefaultURL = "https://clipdrop-api.co/text-to-image/v1"

// max image payload accepted from the upstream
const maxImageBytes = 16 << 20

type ClipDrop struct {
	APIKey string
	URL    string
	HTTP   *http.Client
}

func NewClipDrop(apiKey, url string, timeout time.Duration) *ClipDrop {
	if url == "" {
		url = DefaultURL
	}
	return &ClipDrop{APIKey: apiKey, URL: url, HTTP: &http.Client{Timeout: timeout}}
}

type Image struct {
	Data        []byte
	ContentType string
}

// StatusError is a non-2xx response from the image service.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string { return fmt.Sprintf("clipdrop: status %d", e.Status) }

// Generate posts prompt as multipart form data and returns the image bytes.
func (c *ClipDrop) Generate(ctx context.Context, prompt string) (Image, error) {
	if c.APIKey == "" {
		return Image{}, fmt.Errorf("clipdrop: api key not configured")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("prompt", prompt); err != nil {
		return Image{}, err
	}
	if err := mw.Close(); err != nil {
		return Image{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, &body)
	if err != nil {
		return Image{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("x-api-key", c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return Image{}, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxImageBytes))
	if err != nil {
		return Image{}, err
	}
	if res.StatusCode >= 300 {
		return Image{}, &StatusError{Status: res.StatusCode, Body: string(data)}
	}
	ct := res.Header.Get("Content-Type")
	if ct == "" {
		ct = "image/png"
	}
	return Image{Data: data, ContentType: ct}, nil
}
