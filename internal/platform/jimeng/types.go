package jimeng

// Provider actions on the signed RPC surface.
const (
	actionSubmit    = "CVSync2AsyncSubmitTask"
	actionGetResult = "CVSync2AsyncGetResult"
)

// rateLimitCode is the provider-specific body code for "too many
// concurrent jobs", returned alongside an HTTP error status.
const rateLimitCode = 50430

// Provider job statuses as reported by the result endpoint. Anything else
// (in_queue, generating, ...) means "still running, poll again".
const (
	jobStatusDone   = "done"
	jobStatusFailed = "failed"
	jobStatusError  = "error"
)

// Job is the minimal payload for one generation submission.
type Job struct {
	Prompt   string
	ImageURL string
}

// submitRequest is the wire body of a submit call.
type submitRequest struct {
	ReqKey      string   `json:"req_key"`
	Prompt      string   `json:"prompt"`
	ImageURLs   []string `json:"image_urls"`
	Scale       float64  `json:"scale"`
	LogoInfo    logoInfo `json:"logo_info"`
	ForceSingle bool     `json:"force_single"`
}

type logoInfo struct {
	AddLogo bool `json:"add_logo"`
}

// getResultRequest is the wire body of a result poll.
type getResultRequest struct {
	ReqKey string `json:"req_key"`
	TaskID string `json:"task_id"`
}

// resultData is the core data layer of a result response. Depending on
// the provider's mood it arrives under a "data" envelope or at the top
// level; the client handles both.
type resultData struct {
	Status           string   `json:"status"`
	TaskID           string   `json:"task_id"`
	ImageURLs        []string `json:"image_urls"`
	BinaryDataBase64 []string `json:"binary_data_base64"`
	ImageURL         string   `json:"image_url"`
}

// envelope is the generic response wrapper shared by both actions.
type envelope struct {
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    resultData `json:"data"`
	resultData
}

// Result is one poll response, normalized from the wire format.
type Result struct {
	// Status is the provider's job status string.
	Status string

	// ImageURLs holds ready-to-fetch result URLs when the provider
	// returns them.
	ImageURLs []string

	// BinaryDataBase64 holds inline base64 image bytes when the provider
	// returns those instead.
	BinaryDataBase64 []string

	// ImageURL is the single-URL fallback field.
	ImageURL string
}

// Done reports whether the job finished successfully.
func (r Result) Done() bool {
	return r.Status == jobStatusDone
}

// Failed reports whether the provider declared the job terminally failed.
func (r Result) Failed() bool {
	return r.Status == jobStatusFailed || r.Status == jobStatusError
}

// ExtractImage pulls the result image out of a done response, preferring
// fetchable URLs, then inline base64 bytes (re-wrapped as a data URI so
// downstream consumers can display them), then the single-URL field.
func ExtractImage(r Result) (string, bool) {
	if len(r.ImageURLs) > 0 {
		return r.ImageURLs[0], true
	}
	if len(r.BinaryDataBase64) > 0 {
		return "data:image/jpeg;base64," + r.BinaryDataBase64[0], true
	}
	if r.ImageURL != "" {
		return r.ImageURL, true
	}
	return "", false
}
