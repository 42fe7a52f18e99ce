package model

import "time"

// Event is a single detection reported by an edge device: which device saw
// what, when, and the captured evidence frame.
type Event struct {
	ID            int64
	MACAddress    string
	DetectedClass string
	DetectedAt    time.Time
	Evidence      []byte
	CreatedAt     time.Time
}

type EventCreateRequest struct {
	MACAddress    string `json:"mac_address"`
	DetectedClass string `json:"detected_class"`
	DetectedAt    string `json:"detected_at"`
	Evidence      string `json:"evidence"`
}

type EventResponse struct {
	ID            int64     `json:"id"`
	MACAddress    string    `json:"mac_address"`
	DetectedClass string    `json:"detected_class"`
	DetectedAt    time.Time `json:"detected_at"`
	Evidence      string    `json:"evidence"`
	CreatedAt     time.Time `json:"created_at"`
}
