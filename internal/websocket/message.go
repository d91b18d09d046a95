package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewEventMessage marshals an event payload for broadcast. Marshal errors are
// impossible for the payload types used here, so they are swallowed.
func NewEventMessage(payload interface{}) []byte {
	data, _ := json.Marshal(Message{Action: "event", Payload: payload})
	return data
}
