package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeUserOnline      = "userOnline"
	InboundTypeUserOffline     = "userOffline"
	InboundTypeNicknameUpdated = "nicknameUpdated"

	OutboundTypeOnlineUsers = "onlineUsersUpdate"
	OutboundTypeError       = "error"
)

// PresenceData carries the nickname for presence signals.
type PresenceData struct {
	Nickname string `json:"nickname"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string   `json:"type"`
	Data  []string `json:"data,omitempty"`
	Error *Error   `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
