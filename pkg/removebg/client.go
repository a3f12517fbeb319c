// Package removebg calls the remote background-removal service and manages
// the single outstanding request the viewer allows per image.
package removebg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/digitalvision/viewfinder/util/log"
)

const (
	defaultEndpoint = "https://api.remove.bg/v1.0/removebg"

	// SizeAuto lets the service pick the output resolution.
	SizeAuto = "auto"

	maxErrorBody = 4 << 10
)

// RemoteServiceError is the single error shape for anything that goes wrong
// talking to the service: transport failures and non-2xx responses alike.
type RemoteServiceError struct {
	StatusCode int // 0 for transport failures
	Message    string
}

func (e *RemoteServiceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("background removal failed: %s", e.Message)
	}
	return fmt.Sprintf("background removal failed (HTTP %d): %s", e.StatusCode, e.Message)
}

// Client talks to the background-removal API. The built-in limiter keeps
// bursts of requests under the service's per-minute quota.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	limiter    *rate.Limiter
}

// NewClient creates a Client using the given API key. httpClient may be nil,
// in which case a client with a generous timeout is used; large images can
// take tens of seconds to process.
func NewClient(apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   defaultEndpoint,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Every(1500*time.Millisecond), 1),
	}
}

// SetEndpoint overrides the service URL, mainly for tests.
func (c *Client) SetEndpoint(url string) {
	c.endpoint = url
}

// RemoveBackground submits the encoded image and returns the processed
// bytes, which carry transparency and must be saved as PNG. sizeHint is the
// service's output-size selector; pass SizeAuto when in doubt.
func (c *Client) RemoveBackground(ctx context.Context, imageData []byte, sizeHint string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, &RemoteServiceError{Message: "no API key configured"}
	}
	if len(imageData) == 0 {
		return nil, &RemoteServiceError{Message: "no image data"}
	}
	if sizeHint == "" {
		sizeHint = SizeAuto
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RemoteServiceError{Message: err.Error()}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image_file", "image.png")
	if err != nil {
		return nil, fmt.Errorf("building request body: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("building request body: %w", err)
	}
	if err := mw.WriteField("size", sizeHint); err != nil {
		return nil, fmt.Errorf("building request body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Api-Key", c.apiKey)
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	log.Debugf("background removal request %s (%d bytes, size=%s)", requestID, len(imageData), sizeHint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteServiceError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RemoteServiceError{StatusCode: resp.StatusCode, Message: string(msg)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteServiceError{Message: err.Error()}
	}
	return data, nil
}
