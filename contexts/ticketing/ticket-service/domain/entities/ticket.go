package entities

import "time"

// Ticket is a confirmed registration against a provider event and seat.
type Ticket struct {
	ID        string
	EventID   string
	Seat      string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}
