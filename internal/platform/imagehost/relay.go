// Package imagehost turns embedded image payloads into publicly fetchable
// URLs by uploading them to a temporary hosting provider. Public,
// unauthenticated hosts are individually unreliable, so the relay runs a
// primary host with a secondary fallback, each retried independently; the
// policy trades latency for availability.
package imagehost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"regexp"
	"strings"
	"time"

	"github.com/styleshift/styleshift-api/internal/config"
)

var dataURIPattern = regexp.MustCompile(`^data:(.*?);base64,(.*)$`)

// Relay uploads image bytes to a primary temporary host, falling back to
// a secondary one.
type Relay struct {
	httpClient   *http.Client
	primaryURL   string
	secondaryURL string
	attempts     int
	retryDelay   time.Duration
	logger       *slog.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRelay creates a relay from configuration.
func NewRelay(cfg config.UploadConfig, logger *slog.Logger) *Relay {
	return &Relay{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		primaryURL:   cfg.PrimaryURL,
		secondaryURL: cfg.SecondaryURL,
		attempts:     cfg.Attempts,
		retryDelay:   cfg.RetryDelayBase,
		logger:       logger.With("component", "image_relay"),
		sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
}

// Materialize converts an embedded image payload into a publicly
// fetchable URL. The input is a data URI; a bare base64 string is accepted
// too and treated as JPEG data.
func (r *Relay) Materialize(ctx context.Context, embedded string) (string, error) {
	mimeType := "image/jpeg"
	payload := embedded
	if m := dataURIPattern.FindStringSubmatch(embedded); m != nil {
		if m[1] != "" {
			mimeType = m[1]
		}
		payload = m[2]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}

	ext := "jpg"
	if _, after, found := strings.Cut(mimeType, "/"); found && after != "" {
		ext = strings.ToLower(after)
	}
	filename := "image." + ext

	var lastErr error

	// Primary host, retried with linearly increasing delay.
	for attempt := 1; attempt <= r.attempts; attempt++ {
		url, err := r.uploadPrimary(ctx, data, filename, mimeType)
		if err == nil {
			return url, nil
		}
		lastErr = err
		r.logger.Warn("primary upload host failed",
			"attempt", attempt,
			"error", err)
		if err := r.sleep(ctx, r.retryDelay*time.Duration(attempt)); err != nil {
			return "", err
		}
	}

	// Secondary host with the same retry policy.
	for attempt := 1; attempt <= r.attempts; attempt++ {
		url, err := r.uploadSecondary(ctx, data, filename, mimeType)
		if err == nil {
			return url, nil
		}
		lastErr = err
		r.logger.Warn("secondary upload host failed",
			"attempt", attempt,
			"error", err)
		if err := r.sleep(ctx, r.retryDelay*time.Duration(attempt)); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: %v", ErrAllHostsFailed, lastErr)
}

// uploadPrimary posts the file to the tmpfiles-style JSON API and rewrites
// the returned landing-page URL into its direct-download form.
func (r *Relay) uploadPrimary(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	resp, err := r.postMultipart(ctx, r.primaryURL, data, filename, mimeType)
	if err != nil {
		return "", err
	}

	var body struct {
		URL  string `json:"url"`
		Data struct {
			URL     string `json:"url"`
			FileURL string `json:"file_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp, &body); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	pageURL := body.Data.URL
	if pageURL == "" {
		pageURL = body.URL
	}
	if pageURL == "" {
		pageURL = body.Data.FileURL
	}
	if pageURL == "" {
		return "", ErrNoUploadURL
	}

	return rewriteDirectURL(pageURL), nil
}

// uploadSecondary posts the file to the 0x0-style host, which answers
// with the raw URL as plain text.
func (r *Relay) uploadSecondary(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	resp, err := r.postMultipart(ctx, r.secondaryURL, data, filename, mimeType)
	if err != nil {
		return "", err
	}

	url := strings.TrimSpace(string(resp))
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", ErrNoUploadURL
	}
	return url, nil
}

// postMultipart uploads data as the "file" form field and returns the
// response body of a 2xx reply.
func (r *Relay) postMultipart(ctx context.Context, endpoint string, data []byte, filename, mimeType string) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload call failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upload host returned HTTP %d", resp.StatusCode)
	}
	return body, nil
}

// rewriteDirectURL turns a tmpfiles.org landing-page URL into the direct
// download form (/dl/...). URLs of other shapes pass through unchanged.
func rewriteDirectURL(pageURL string) string {
	_, after, found := strings.Cut(pageURL, "tmpfiles.org/")
	if !found {
		return pageURL
	}
	id := strings.Trim(after, "/")
	if id == "" || strings.HasPrefix(id, "dl/") {
		return pageURL
	}
	return "https://tmpfiles.org/dl/" + id
}
