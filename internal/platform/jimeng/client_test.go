package jimeng

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styleshift/styleshift-api/internal/config"
)

func testProviderConfig() config.ProviderConfig {
	return config.ProviderConfig{
		AccessKey:         "test-ak",
		SecretKey:         "test-sk",
		Host:              "visual.example.com",
		Region:            "cn-north-1",
		Service:           "cv",
		Version:           "2022-08-31",
		ReqKey:            "jimeng_t2i_v40",
		SubmitBackoffBase: 10 * time.Millisecond,
		SubmitBackoffCap:  40 * time.Millisecond,
		PollInterval:      10 * time.Millisecond,
		TaskDeadline:      time.Second,
	}
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// newTestClient points a client at the given httptest server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(testProviderConfig(), setupTestLogger())
	require.NoError(t, err)
	client.baseURL = server.URL + "/"
	return client
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(testProviderConfig(), nil)
	assert.Error(t, err)

	cfg := testProviderConfig()
	cfg.AccessKey = ""
	_, err = NewClient(cfg, setupTestLogger())
	assert.Error(t, err)
}

func TestSubmitSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, actionSubmit, r.URL.Query().Get("Action"))
		assert.Equal(t, "2022-08-31", r.URL.Query().Get("Version"))
		assert.NotEmpty(t, r.Header.Get("X-Date"))
		assert.Contains(t, r.Header.Get("Authorization"), "HMAC-SHA256 Credential=test-ak/")

		var body submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jimeng_t2i_v40", body.ReqKey)
		assert.Equal(t, "a cat in space", body.Prompt)
		assert.Equal(t, []string{"https://img.example/in.jpg"}, body.ImageURLs)
		assert.Equal(t, 0.5, body.Scale)
		assert.False(t, body.LogoInfo.AddLogo)
		assert.True(t, body.ForceSingle)

		_, _ = w.Write([]byte(`{"code":10000,"data":{"task_id":"prov-42"},"message":"Success"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	jobID, err := client.Submit(context.Background(), Job{
		Prompt:   "a cat in space",
		ImageURL: "https://img.example/in.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "prov-42", jobID)
}

func TestSubmitTopLevelJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":10000,"task_id":"prov-9"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	jobID, err := client.Submit(context.Background(), Job{Prompt: "p", ImageURL: "u"})
	require.NoError(t, err)
	assert.Equal(t, "prov-9", jobID)
}

func TestSubmitMissingJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":10000,"data":{}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Submit(context.Background(), Job{Prompt: "p", ImageURL: "u"})
	assert.ErrorIs(t, err, ErrNoJobID)
}

func TestSubmitRateLimitClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"http 429", http.StatusTooManyRequests, `{}`},
		{"http 503", http.StatusServiceUnavailable, `{}`},
		{"provider code", http.StatusBadRequest, `{"code":50430,"message":"concurrency limit"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := newTestClient(t, server)
			_, err := client.Submit(context.Background(), Job{Prompt: "p", ImageURL: "u"})
			assert.True(t, IsRateLimited(err), "expected rate-limited classification, got %v", err)
		})
	}
}

func TestSubmitNonRetryableError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":50411,"message":"prompt rejected"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Submit(context.Background(), Job{Prompt: "p", ImageURL: "u"})
	require.Error(t, err)
	assert.False(t, IsRateLimited(err))
	assert.Contains(t, err.Error(), "prompt rejected")
}

func TestSubmitWithRetryBacksOffThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"code":10000,"data":{"task_id":"prov-1"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	start := time.Now()
	jobID, err := client.SubmitWithRetry(context.Background(), Job{Prompt: "p", ImageURL: "u"},
		time.Now().Add(time.Second))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "prov-1", jobID)
	assert.EqualValues(t, 3, calls.Load())
	// Two rate-limit hits: base delay plus the doubled delay.
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestSubmitWithRetryDelayIsCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server)

	var delays []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, err := client.SubmitWithRetry(context.Background(), Job{Prompt: "p", ImageURL: "u"},
		time.Now().Add(100*time.Millisecond))
	assert.ErrorIs(t, err, ErrSubmitDeadline)

	require.NotEmpty(t, delays)
	assert.Equal(t, 10*time.Millisecond, delays[0])
	for _, d := range delays {
		assert.LessOrEqual(t, d, 40*time.Millisecond)
	}
}

func TestSubmitWithRetryFailsFastOnPermanentError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":50411,"message":"prompt rejected"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.SubmitWithRetry(context.Background(), Job{Prompt: "p", ImageURL: "u"},
		time.Now().Add(time.Second))
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestGetResultStillRunning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, actionGetResult, r.URL.Query().Get("Action"))

		var body getResultRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "prov-1", body.TaskID)

		_, _ = w.Write([]byte(`{"code":10000,"data":{"status":"generating"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	result, err := client.GetResult(context.Background(), "prov-1")
	require.NoError(t, err)
	assert.False(t, result.Done())
	assert.False(t, result.Failed())
}

func TestGetResultDoneWithURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":10000,"data":{"status":"done","image_urls":["https://cdn.example/a.jpg","https://cdn.example/b.jpg"]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	result, err := client.GetResult(context.Background(), "prov-1")
	require.NoError(t, err)
	assert.True(t, result.Done())

	img, ok := ExtractImage(result)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/a.jpg", img)
}

func TestGetResultDoneTopLevelDataLayer(t *testing.T) {
	// Some responses skip the "data" envelope entirely.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":10000,"status":"done","image_url":"https://cdn.example/one.jpg"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	result, err := client.GetResult(context.Background(), "prov-1")
	require.NoError(t, err)
	assert.True(t, result.Done())

	img, ok := ExtractImage(result)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/one.jpg", img)
}

func TestGetResultFailedStatus(t *testing.T) {
	for _, status := range []string{"failed", "error"} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":10000,"data":{"status":"` + status + `"}}`))
		}))

		client := newTestClient(t, server)
		result, err := client.GetResult(context.Background(), "prov-1")
		require.NoError(t, err)
		assert.True(t, result.Failed())

		server.Close()
	}
}

func TestExtractImagePreferenceOrder(t *testing.T) {
	// URLs win over everything.
	img, ok := ExtractImage(Result{
		ImageURLs:        []string{"https://cdn.example/a.jpg"},
		BinaryDataBase64: []string{"Zm9v"},
		ImageURL:         "https://cdn.example/one.jpg",
	})
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/a.jpg", img)

	// Inline bytes are re-wrapped as a displayable data URI.
	img, ok = ExtractImage(Result{BinaryDataBase64: []string{"Zm9v"}})
	require.True(t, ok)
	assert.Equal(t, "data:image/jpeg;base64,Zm9v", img)

	// Single-URL field is the last resort.
	img, ok = ExtractImage(Result{ImageURL: "https://cdn.example/one.jpg"})
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/one.jpg", img)

	// Nothing extractable.
	_, ok = ExtractImage(Result{Status: "done"})
	assert.False(t, ok)
}
