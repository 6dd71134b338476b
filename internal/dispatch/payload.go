package dispatch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Payload is a generically decoded JSON document. Adapters parse it with the
// accessors below so that missing or renamed fields degrade to zero values
// instead of decode errors.
type Payload = map[string]any

// DecodePayload reads a JSON object from r.
func DecodePayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrSchema, err)
	}
	return p, nil
}

// Lookup walks v by map keys (string) and slice indexes (int).
func Lookup(v any, path ...any) (any, bool) {
	for _, step := range path {
		switch key := step.(type) {
		case string:
			m, ok := v.(map[string]any)
			if !ok {
				return nil, false
			}
			if v, ok = m[key]; !ok {
				return nil, false
			}
		case int:
			s, ok := v.([]any)
			if !ok || key < 0 || key >= len(s) {
				return nil, false
			}
			v = s[key]
		default:
			return nil, false
		}
	}
	return v, true
}

// String returns the string at path, or "" when absent or not a string.
func String(v any, path ...any) string {
	x, _ := Lookup(v, path...)
	s, _ := x.(string)
	return s
}

// List returns the array at path, or nil.
func List(v any, path ...any) []any {
	x, _ := Lookup(v, path...)
	s, _ := x.([]any)
	return s
}

// Object returns the object at path, or nil.
func Object(v any, path ...any) map[string]any {
	x, _ := Lookup(v, path...)
	m, _ := x.(map[string]any)
	return m
}

// Has reports whether path exists.
func Has(v any, path ...any) bool {
	_, ok := Lookup(v, path...)
	return ok
}

// ProviderError extracts the error message most REST APIs put in their
// error bodies: {"error": {"message": "..."}} or {"error": "..."}. A bare
// top-level "message" is not an error on its own, see ErrorBody.
func ProviderError(p Payload) string {
	if msg := String(p, "error", "message"); msg != "" {
		return msg
	}
	return String(p, "error")
}

// ErrorBody reads the message of a body already known to be an error, such
// as a non-2xx response, where a top-level "message" is the error text.
func ErrorBody(p Payload) string {
	if msg := ProviderError(p); msg != "" {
		return msg
	}
	return String(p, "message")
}

// DoJSON performs req and decodes a JSON object body. Transport failures map
// to ErrNetwork; non-2xx statuses map to ErrNetwork carrying the provider's
// own error message when one can be read.
func DoJSON(client *http.Client, req *http.Request) (Payload, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(body))
		var p Payload
		if json.Unmarshal(body, &p) == nil {
			if m := ErrorBody(p); m != "" {
				msg = m
			}
		}
		return nil, fmt.Errorf("%w: api error: %d %s", ErrNetwork, resp.StatusCode, msg)
	}

	return DecodePayload(resp.Body)
}
