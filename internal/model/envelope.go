package model

import "encoding/json"

var successTrue = json.RawMessage(`true`)

// SuccessEnvelope places success=true first and then merges every member of
// upstream at the top level, in upstream order. A success member carried by
// upstream overrides the flag without moving it.
func SuccessEnvelope(upstream *Document) Document {
	env := Document{Fields: make([]Field, 0, upstream.Len()+1)}
	env.Set("success", successTrue)
	for _, f := range upstream.Fields {
		env.Set(f.Key, f.Value)
	}
	return env
}

// ErrorResponse is the failure envelope returned to callers.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Message string          `json:"message,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

// UpstreamErrorResponse is the failure envelope for provider errors. Message
// carries the provider's own message member as-is, whatever its JSON type.
type UpstreamErrorResponse struct {
	Error   string          `json:"error"`
	Message json.RawMessage `json:"message"`
	Details json.RawMessage `json:"details"`
}
