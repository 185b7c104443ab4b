package domain

import "time"

// LiveSession is a persisted session record. IDs are assigned by the
// store and are strictly increasing, also under concurrent creates.
type LiveSession struct {
	ID        int64     `json:"id"`
	UserURL   string    `json:"userurl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
