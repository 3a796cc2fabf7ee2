package messaging

import "time"

// AttendanceEventType distinguishes check-in from check-out events.
type AttendanceEventType string

const (
	EventCheckIn  AttendanceEventType = "CHECK_IN"
	EventCheckOut AttendanceEventType = "CHECK_OUT"
)

// AttendanceEvent is the JSON payload published after a successful check-in or check-out.
type AttendanceEvent struct {
	Type       AttendanceEventType `json:"type"`
	PresensiID string              `json:"presensiId"`
	UserID     string              `json:"userId"`
	Latitude   *float64            `json:"latitude,omitempty"`
	Longitude  *float64            `json:"longitude,omitempty"`
	OccurredAt time.Time           `json:"occurredAt"`
}
