package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeResign     MessageType = "resign"
	MessageTypeMatchFound MessageType = "matchFound"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorPayload is the body of a MessageTypeError message.
type ErrorPayload struct {
	Error string `json:"error"`
}

// NewError builds an error message; the payload must stay valid JSON.
func NewError(text string) Message {
	payload, _ := json.Marshal(ErrorPayload{Error: text})
	return Message{Type: MessageTypeError, Payload: payload}
}
