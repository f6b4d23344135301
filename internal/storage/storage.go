package storage

import "liquidityCore/internal/model"

// EventSink is an append-only sink for engine events. The engine never
// reads events back.
type EventSink interface {
	PutEventBatch(events []model.Event) error
}

// RejectSink is an append-only sink for operations the replay pipeline
// could not apply.
type RejectSink interface {
	PutRejectBatch(rejects []model.RejectRecord) error
}
