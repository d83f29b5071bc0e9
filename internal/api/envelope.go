package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/readinglog-server/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the versioned
// envelope. Errors become {"success":false,"error":{...}}.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope, *response.Envelope:
		return v, nil
	case *APIError:
		return response.Failure(body.Code, body.Message, body.Details), nil
	default:
		return response.Success(v), nil
	}
}
