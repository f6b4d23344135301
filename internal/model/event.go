package model

import "encoding/json"

// Event names emitted by the engine.
const (
	EventMint = "mint"
	EventBurn = "burn"
	EventSwap = "swap"
)

// Event is an engine event enriched with its pool key, ready for a sink.
// Seq is assigned in the pool's serialization order.
type Event struct {
	Seq       uint64      `json:"seq"`
	EventName string      `json:"event_name"`
	Owner     string      `json:"owner"`
	Pair      string      `json:"pair"`
	EmittedAt string      `json:"emitted_at"`
	Decoded   interface{} `json:"decoded"`
}

// EventRecord mirrors Event on the read side, keeping the payload raw
// until the consumer knows the event name.
type EventRecord struct {
	Seq       uint64          `json:"seq"`
	EventName string          `json:"event_name"`
	Owner     string          `json:"owner"`
	Pair      string          `json:"pair"`
	EmittedAt string          `json:"emitted_at"`
	Decoded   json.RawMessage `json:"decoded"`
}
