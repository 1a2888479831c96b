package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

// decodeJSONBody decodes r.Body into dst. An empty body leaves dst untouched.
func decodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errInvalidRequestBody(err)
	}
	return nil
}
