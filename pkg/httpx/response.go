package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxJSONBody caps request bodies decoded by DecodeJSON.
const MaxJSONBody = 1 << 20

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// Redirect sends a non-cacheable 302. Redirect targets here often carry
// credentials in the query string.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	NoCache(w)
	http.Redirect(w, r, target, http.StatusFound)
}

// DecodeJSON decodes a single JSON object from the request body. Unknown
// fields are ignored; trailing data is rejected.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxJSONBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("httpx: decode body: %w", err)
	}
	if dec.More() {
		return errors.New("httpx: unexpected data after JSON body")
	}
	return nil
}
