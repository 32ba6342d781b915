package transport

import (
	"bytes"
	"encoding/json"

	"github.com/trophyline/gametrack-go/internal/types"
)

// Decode paths are chosen per declared payload shape at the call site:
// object, ordered sequence, or key-value map. Collection shapes fall back to
// an empty instance on an absent or null payload so call sites never see nil.

// DecodeObject decodes an object-shaped payload. An empty body is an error;
// use DecodeObjectAllowEmpty for endpoints that legitimately return nothing.
func DecodeObject[T any](resp *Response) (*T, error) {
	if resp.NoContent() {
		return nil, &types.APIError{
			Code:       "DECODE_ERROR",
			Message:    "content expected but absent",
			StatusCode: resp.StatusCode,
			Err:        types.ErrNoContent,
		}
	}
	var out T
	if err := unmarshal(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeObjectAllowEmpty decodes an object-shaped payload, returning the
// zero value when the response carried no content.
func DecodeObjectAllowEmpty[T any](resp *Response) (*T, error) {
	var out T
	if resp.NoContent() || isJSONNull(resp.Body) {
		return &out, nil
	}
	if err := unmarshal(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeList decodes a sequence-shaped payload. Absent or null payloads
// yield an empty slice.
func DecodeList[T any](resp *Response) ([]T, error) {
	if resp.NoContent() || isJSONNull(resp.Body) {
		return []T{}, nil
	}
	out := []T{}
	if err := unmarshal(resp, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// DecodeMap decodes a mapping-shaped payload. Absent or null payloads yield
// an empty map. Vendors that key objects by numeric IDs land here.
func DecodeMap[V any](resp *Response) (map[string]V, error) {
	if resp.NoContent() || isJSONNull(resp.Body) {
		return map[string]V{}, nil
	}
	out := map[string]V{}
	if err := unmarshal(resp, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]V{}
	}
	return out, nil
}

// unmarshal decodes into target, surfacing both the parser message and the
// raw body so vendor contract drift can be diagnosed without re-requesting.
func unmarshal(resp *Response, target interface{}) error {
	if err := json.Unmarshal(resp.Body, target); err != nil {
		return &types.APIError{
			Code:       "DECODE_ERROR",
			Message:    err.Error(),
			StatusCode: resp.StatusCode,
			RawBody:    string(resp.Body),
			Err:        err,
		}
	}
	return nil
}

func isJSONNull(body []byte) bool {
	return bytes.Equal(bytes.TrimSpace(body), []byte("null"))
}
