package server

import (
	"encoding/json"

	"github.com/samdwyer/dungeongen/internal/world"
)

// MessageType defines the type of message being sent
type MessageType string

const (
	MessageTypeGenerate MessageType = "generate"
	MessageTypeLevel    MessageType = "level"
	MessageTypeError    MessageType = "error"
)

// BaseMessage is the envelope for outgoing messages
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload"`
}

// incomingMessage keeps the payload raw until the type is known
type incomingMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// GenerateRequest asks for one level. Zero fields fall back to the server defaults.
type GenerateRequest struct {
	Seed          string `json:"seed,omitempty"`
	Text          string `json:"text,omitempty"`
	Algorithm     string `json:"algorithm,omitempty"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	MinRoomWidth  int    `json:"min_room_width,omitempty"`
	MinRoomHeight int    `json:"min_room_height,omitempty"`
	Walls         bool   `json:"walls,omitempty"`
	Moore         bool   `json:"moore,omitempty"`
	Save          bool   `json:"save,omitempty"`
}

// LevelMessage carries a generated level; ID is set when it was archived
type LevelMessage struct {
	ID    string       `json:"id,omitempty"`
	Level world.Export `json:"level"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorMessage(code, msg string) BaseMessage {
	return BaseMessage{
		Type:    MessageTypeError,
		Payload: ErrorMessage{Code: code, Message: msg},
	}
}
