package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire format version clients pin against.
const envelopeVersion = 1

// Envelope is the JSON shell around every API response.
// Success responses carry data; error responses carry either a plain error
// string or the code/message/details triple from APIError.
type Envelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps huma response bodies in the versioned envelope.
// Registered as a huma transformer so handlers return raw DTOs.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}

	if code >= 400 {
		env := Envelope{V: envelopeVersion, Success: false}
		if apiErr, ok := v.(*APIError); ok {
			env.Error = apiErr.Message
			env.Code = apiErr.Code
			env.Message = apiErr.Message
			env.Details = apiErr.Details
		} else if e, ok := v.(error); ok {
			env.Error = e.Error()
		}
		return env, nil
	}

	return Envelope{V: envelopeVersion, Success: true, Data: v}, nil
}
