package domain

import "time"

// SOSAlert is an append-only emergency log entry. Location fields are nil
// when the client could not obtain a fix.
type SOSAlert struct {
	ID        string
	UserID    string
	Message   string
	Latitude  *float64
	Longitude *float64
	Accuracy  *float64
	MapsLink  string
	CreatedAt time.Time
}
