package api

// Common request/response structures

// GenerateRequest defines the payload for the image generation endpoint.
// Either a prompt or a style id must be present; imageUrl may be an
// already-public URL or an embedded data URI.
type GenerateRequest struct {
	Prompt   string `json:"prompt"   validate:"required_without=StyleID,max=4000"`
	ImageURL string `json:"imageUrl" validate:"omitempty,max=25000000"`
	StyleID  string `json:"styleId"  validate:"omitempty,max=64"`
}

// GenerateResponse acknowledges an accepted (or deduplicated) submission.
type GenerateResponse struct {
	TaskID string `json:"taskId"`
}

// ResultResponse carries the generated image for a finished task.
type ResultResponse struct {
	ImageURL string `json:"imageUrl"`
}

// ResultPendingResponse reports the current status of a task that has not
// reached a terminal state yet.
type ResultPendingResponse struct {
	Status string `json:"status"`
}

// HealthResponse is the liveness probe payload.
type HealthResponse struct {
	OK   bool `json:"ok"`
	Port int  `json:"port"`
}
