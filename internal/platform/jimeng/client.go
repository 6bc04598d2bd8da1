package jimeng

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/styleshift/styleshift-api/internal/config"
)

// Client issues the two signed remote operations against the generation
// provider: submit-job and get-job-result.
type Client struct {
	httpClient *http.Client
	signer     signer
	baseURL    string
	version    string
	reqKey     string

	backoffBase time.Duration
	backoffCap  time.Duration

	logger *slog.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a provider client from configuration.
func NewClient(cfg config.ProviderConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("provider credentials cannot be empty")
	}

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		signer: signer{
			accessKey: cfg.AccessKey,
			secretKey: cfg.SecretKey,
			region:    cfg.Region,
			service:   cfg.Service,
			now:       time.Now,
		},
		baseURL:     "https://" + cfg.Host + "/",
		version:     cfg.Version,
		reqKey:      cfg.ReqKey,
		backoffBase: cfg.SubmitBackoffBase,
		backoffCap:  cfg.SubmitBackoffCap,
		logger:      logger.With("component", "jimeng_client"),
		sleep:       sleepCtx,
	}, nil
}

// Submit issues one submit-job call and returns the provider job id.
// Rate-limit rejections come back wrapped in ErrRateLimited so the caller
// can decide to back off; any other provider rejection is permanent.
func (c *Client) Submit(ctx context.Context, job Job) (string, error) {
	body := submitRequest{
		ReqKey:      c.reqKey,
		Prompt:      job.Prompt,
		ImageURLs:   []string{job.ImageURL},
		Scale:       0.5,
		LogoInfo:    logoInfo{AddLogo: false},
		ForceSingle: true,
	}

	var resp envelope
	if err := c.call(ctx, actionSubmit, body, &resp); err != nil {
		return "", err
	}

	jobID := resp.Data.TaskID
	if jobID == "" {
		jobID = resp.TaskID
	}
	if jobID == "" {
		return "", ErrNoJobID
	}
	return jobID, nil
}

// SubmitWithRetry attempts Submit until it succeeds or the deadline
// elapses. Rate-limit rejections are retried after a delay that starts at
// the configured base and doubles per hit up to the cap; any other error
// is returned immediately.
func (c *Client) SubmitWithRetry(ctx context.Context, job Job, deadline time.Time) (string, error) {
	delay := c.backoffBase

	for time.Now().Before(deadline) {
		jobID, err := c.Submit(ctx, job)
		if err == nil {
			return jobID, nil
		}
		if !IsRateLimited(err) {
			return "", err
		}

		c.logger.Warn("provider rate limited, backing off",
			"delay", delay,
			"error", err)

		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
		if delay > c.backoffCap {
			delay = c.backoffCap
		}
	}

	return "", ErrSubmitDeadline
}

// GetResult issues one get-job-result call. A still-running job is not an
// error; the returned Result's Status says so and the caller polls again.
func (c *Client) GetResult(ctx context.Context, jobID string) (Result, error) {
	body := getResultRequest{ReqKey: c.reqKey, TaskID: jobID}

	var resp envelope
	if err := c.call(ctx, actionGetResult, body, &resp); err != nil {
		return Result{}, err
	}

	// The core data layer is either under "data" or at the top level.
	data := resp.Data
	if data.Status == "" {
		data = resp.resultData
	}

	return Result{
		Status:           data.Status,
		ImageURLs:        data.ImageURLs,
		BinaryDataBase64: data.BinaryDataBase64,
		ImageURL:         data.ImageURL,
	}, nil
}

// call signs and posts one action, decoding the JSON response into out.
func (c *Client) call(ctx context.Context, action string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	query := url.Values{}
	query.Set("Action", action)
	query.Set("Version", c.version)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"?"+query.Encode(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.signer.sign(req, payload)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s call failed: %w", action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", action, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classifyHTTPError(action, resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}
	return nil
}

// classifyHTTPError distinguishes transient capacity rejections from
// permanent request errors. HTTP 429/503 and the provider's concurrency
// code both mean "wait and retry".
func (c *Client) classifyHTTPError(action string, status int, body []byte) error {
	var errBody struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &errBody)

	if status == http.StatusTooManyRequests ||
		status == http.StatusServiceUnavailable ||
		errBody.Code == rateLimitCode {
		return fmt.Errorf("%w: %s returned HTTP %d (code %d)",
			ErrRateLimited, action, status, errBody.Code)
	}

	if errBody.Message != "" {
		return fmt.Errorf("%s returned HTTP %d: %s", action, status, errBody.Message)
	}
	return fmt.Errorf("%s returned HTTP %d", action, status)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
