package models

import "time"

// Tweet represents a single posted message. Reads join to the author, so
// Username and Name are populated on every row returned by the feed and
// search queries.
type Tweet struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"userID"`
	Tweet    string    `json:"tweet"`
	Created  time.Time `json:"created"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}
