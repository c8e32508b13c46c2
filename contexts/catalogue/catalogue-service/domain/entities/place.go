package entities

import "time"

// Place is a venue mirrored from the provider. Owned exclusively by the
// sync engine; nothing else in this context mutates it.
type Place struct {
	ID           string
	Name         string
	City         string
	Address      string
	SeatsPattern string
	CreatedAt    time.Time
	ChangedAt    time.Time
}
