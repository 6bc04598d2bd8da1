package shared

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON decodes the request body into the given destination struct.
// Callers map a failure to a 400 response.
func DecodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
