package jimeng

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

// signer produces the provider's HMAC-SHA256 request signature (the
// Volcengine variant of the AWS SigV4 scheme). A request is signed over
// the method, path, sorted query string, a fixed set of headers, and a
// digest of the body; the credential scope is date/region/service/request.
type signer struct {
	accessKey string
	secretKey string
	region    string
	service   string
	now       func() time.Time
}

const timeFormat = "20060102T150405Z"

// sign adds X-Date, X-Content-Sha256, Host, and Authorization headers to
// req. The body must already be attached and is passed separately so it
// can be hashed without draining the request.
func (s signer) sign(req *http.Request, body []byte) {
	date := s.now().UTC().Format(timeFormat)
	shortDate := date[:8]

	payloadHash := hexSHA256(body)
	req.Header.Set("X-Date", date)
	req.Header.Set("X-Content-Sha256", payloadHash)
	req.Header.Set("Host", req.URL.Host)

	signedHeaders := "content-type;host;x-content-sha256;x-date"
	canonicalHeaders := strings.Join([]string{
		"content-type:" + req.Header.Get("Content-Type"),
		"host:" + req.URL.Host,
		"x-content-sha256:" + payloadHash,
		"x-date:" + date,
	}, "\n") + "\n"

	canonicalRequest := strings.Join([]string{
		req.Method,
		"/",
		req.URL.Query().Encode(), // Encode sorts keys
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	scope := strings.Join([]string{shortDate, s.region, s.service, "request"}, "/")
	stringToSign := strings.Join([]string{
		"HMAC-SHA256",
		date,
		scope,
		hexSHA256([]byte(canonicalRequest)),
	}, "\n")

	key := hmacSHA256([]byte(s.secretKey), shortDate)
	key = hmacSHA256(key, s.region)
	key = hmacSHA256(key, s.service)
	key = hmacSHA256(key, "request")
	signature := hex.EncodeToString(hmacSHA256(key, stringToSign))

	req.Header.Set("Authorization",
		"HMAC-SHA256 Credential="+s.accessKey+"/"+scope+
			", SignedHeaders="+signedHeaders+
			", Signature="+signature)
}

func hexSHA256(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, msg string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}
