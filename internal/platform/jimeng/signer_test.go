package jimeng

import (
	"bytes"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSigner() signer {
	return signer{
		accessKey: "ak",
		secretKey: "sk",
		region:    "cn-north-1",
		service:   "cv",
		now: func() time.Time {
			return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		},
	}
}

func signedRequest(t *testing.T) *http.Request {
	t.Helper()
	body := []byte(`{"req_key":"jimeng_t2i_v40"}`)
	req, err := http.NewRequest(http.MethodPost,
		"https://visual.example.com/?Action=CVSync2AsyncSubmitTask&Version=2022-08-31",
		bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	fixedSigner().sign(req, body)
	return req
}

func TestSignSetsRequiredHeaders(t *testing.T) {
	req := signedRequest(t)

	assert.Equal(t, "20240102T030405Z", req.Header.Get("X-Date"))
	assert.Len(t, req.Header.Get("X-Content-Sha256"), 64)
	assert.Equal(t, "visual.example.com", req.Header.Get("Host"))
}

func TestSignAuthorizationShape(t *testing.T) {
	req := signedRequest(t)

	auth := req.Header.Get("Authorization")
	pattern := regexp.MustCompile(
		`^HMAC-SHA256 Credential=ak/20240102/cn-north-1/cv/request, ` +
			`SignedHeaders=content-type;host;x-content-sha256;x-date, ` +
			`Signature=[0-9a-f]{64}$`)
	assert.Regexp(t, pattern, auth)
}

func TestSignIsDeterministic(t *testing.T) {
	a := signedRequest(t).Header.Get("Authorization")
	b := signedRequest(t).Header.Get("Authorization")
	assert.Equal(t, a, b)
}

func TestSignVariesWithPayload(t *testing.T) {
	s := fixedSigner()

	sign := func(body []byte) string {
		req, err := http.NewRequest(http.MethodPost, "https://visual.example.com/", bytes.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		s.sign(req, body)
		return req.Header.Get("Authorization")
	}

	assert.NotEqual(t, sign([]byte(`{"a":1}`)), sign([]byte(`{"a":2}`)))
}
