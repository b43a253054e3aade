package model

import "time"

// Announcement is a broadcast message kept in the append-only log.
type Announcement struct {
	ID        int64
	Message   string
	CreatedAt time.Time
}
