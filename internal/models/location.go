package models

import "time"

// UpdateResult is the acknowledgment returned once every location update was emitted.
type UpdateResult struct {
	Message string `json:"message"`
}

// LocationUpdatedMessage is the only message an UpdateResult ever carries.
const LocationUpdatedMessage = "location updated"

// NewUpdateResult returns the fixed acknowledgment.
func NewUpdateResult() UpdateResult {
	return UpdateResult{Message: LocationUpdatedMessage}
}

// LocationUpdate is the envelope sinks use when forwarding a coordinate string to a backend.
type LocationUpdate struct {
	CabID       string    `json:"cab_id"`      // CabID identifies the cab that reported the location.
	Coordinates string    `json:"coordinates"` // Coordinates is the "<lat>,<lon>" string as emitted.
	RecordedAt  time.Time `json:"recorded_at"` // RecordedAt is when the sink received the update.
}
