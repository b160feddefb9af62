package audit

import "time"

// Topic is the stream admin mutations are published to.
const Topic = "audit.entry"

// Event records an admin mutation. Events are published fire-and-forget from
// the request path; the recorder persists them out of band.
type Event struct {
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resourceId"`
	ClientIP   string    `json:"clientIp"`
	OccurredAt time.Time `json:"occurredAt"`
}
