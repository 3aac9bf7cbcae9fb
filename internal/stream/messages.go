// Package stream serves graph conversion over a websocket connection.
package stream

import (
	"encoding/json"
	"errors"

	"github.com/depscope/core/internal/converter"
	"github.com/depscope/core/internal/models"
)

type MessageType string

const (
	// Client -> Server
	TypeConvert MessageType = "convert"
	TypePing    MessageType = "ping"

	// Server -> Client
	TypeGraph MessageType = "graph"
	TypeError MessageType = "error"
	TypePong  MessageType = "pong"
)

type Message struct {
	Type    MessageType     `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ConvertPayload carries an analyzer document either as JSON or as a JSON
// string holding the file contents.
type ConvertPayload struct {
	Format   string          `json:"format,omitempty"`
	Document json.RawMessage `json:"document"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const (
	CodeBadMessage  = "bad_message"
	CodeEmpty       = "empty_document"
	CodeMalformed   = "malformed_document"
	CodeUnsupported = "unsupported_format"
	CodeInternal    = "internal"
)

// DocumentBytes returns the analyzer document to convert.
func (p ConvertPayload) DocumentBytes() ([]byte, error) {
	if len(p.Document) > 0 && p.Document[0] == '"' {
		var text string
		if err := json.Unmarshal(p.Document, &text); err != nil {
			return nil, err
		}
		return []byte(text), nil
	}
	return p.Document, nil
}

func NewGraphMessage(id string, graph *models.Graph) Message {
	payloadBytes, _ := json.Marshal(graph)
	return Message{Type: TypeGraph, ID: id, Payload: payloadBytes}
}

func NewErrorMessage(id, message, code string) Message {
	payloadBytes, _ := json.Marshal(ErrorPayload{Message: message, Code: code})
	return Message{Type: TypeError, ID: id, Payload: payloadBytes}
}

func errorCode(err error) string {
	var unsupported *converter.UnsupportedFormatError
	switch {
	case errors.Is(err, converter.ErrEmptyDocument):
		return CodeEmpty
	case errors.Is(err, converter.ErrMalformedDocument):
		return CodeMalformed
	case errors.As(err, &unsupported):
		return CodeUnsupported
	default:
		return CodeInternal
	}
}
