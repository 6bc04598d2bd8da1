// Package redact strips sensitive or oversized material from strings
// before they are logged. Error chains in this service can carry provider
// signing credentials and multi-megabyte base64 image payloads; neither
// belongs in a log line.
package redact

import (
	"regexp"
)

// Redaction placeholders.
const (
	RedactedKeyPlaceholder   = "[REDACTED_KEY]"
	RedactedImagePlaceholder = "data:[REDACTED_IMAGE]"
)

var (
	// Signed request material: the credential scope of an Authorization
	// header and explicit key/secret assignments.
	credentialRegex = regexp.MustCompile(`Credential=[^,\s]+`)
	signatureRegex  = regexp.MustCompile(`Signature=[0-9a-f]{16,}`)
	apiKeyRegex     = regexp.MustCompile(
		`(?i)(access[_-]?key|secret[_-]?key|api[_-]?key|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// Embedded image payloads. Anything long enough to be an image is
	// collapsed; short data URIs in test fixtures survive.
	dataURIRegex = regexp.MustCompile(`data:[\w.+-]+/[\w.+-]+;base64,[A-Za-z0-9+/=]{64,}`)
)

// String returns s with credentials and embedded image payloads replaced
// by placeholders.
func String(s string) string {
	s = dataURIRegex.ReplaceAllString(s, RedactedImagePlaceholder)
	s = credentialRegex.ReplaceAllString(s, "Credential="+RedactedKeyPlaceholder)
	s = signatureRegex.ReplaceAllString(s, "Signature="+RedactedKeyPlaceholder)
	s = apiKeyRegex.ReplaceAllString(s, "${1}${2}"+RedactedKeyPlaceholder)
	return s
}

// Error redacts an error's message. A nil error yields the empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
