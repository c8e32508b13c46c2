package provider

import "time"

// PlacePayload is the provider's wire representation of a venue.
type PlacePayload struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Address      string    `json:"address"`
	SeatsPattern string    `json:"seats_pattern"`
	ChangedAt    time.Time `json:"changed_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// EventPayload is the provider's wire representation of an event.
type EventPayload struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Place                PlacePayload `json:"place"`
	EventTime            time.Time    `json:"event_time"`
	RegistrationDeadline time.Time    `json:"registration_deadline"`
	Status               string       `json:"status"`
	NumberOfVisitors     int          `json:"number_of_visitors"`
	ChangedAt            time.Time    `json:"changed_at"`
	CreatedAt            time.Time    `json:"created_at"`
	StatusChangedAt      *time.Time  `json:"status_changed_at"`
}

// PagePayload is one page of the provider's paginated events listing.
type PagePayload struct {
	Next     string         `json:"next"`
	Previous string         `json:"previous"`
	Results  []EventPayload `json:"results"`
}

// SeatsPayload is the provider's response to a seats lookup.
type SeatsPayload struct {
	Seats []string `json:"seats"`
}

// RegisterInput is the request body for a register call.
type RegisterInput struct {
	EventID   string `json:"event_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Seat      string `json:"seat"`
}

// RegisterResponse is the provider's response to a register call.
type RegisterResponse struct {
	TicketID string `json:"ticket_id"`
}

// UnregisterInput is the request body for an unregister call.
type UnregisterInput struct {
	TicketID string `json:"ticket_id"`
}

// UnregisterResponse is the provider's response to an unregister call.
type UnregisterResponse struct {
	Success bool `json:"success"`
}
