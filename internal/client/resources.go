package client

import (
	"encoding/json"

	"github.com/edent/crossref-client/pkg/crossref"
)

// decodeMessage unwraps the API's response envelope around a message payload.
func decodeMessage[T any](body []byte) (*T, error) {
	var envelope crossref.Envelope[T]

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, &crossref.DecodeError{Err: err, Body: body}
	}

	return &envelope.Message, nil
}
