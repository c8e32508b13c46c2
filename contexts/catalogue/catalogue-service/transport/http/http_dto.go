package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PlaceDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Address      string `json:"address"`
	SeatsPattern string `json:"seats_pattern"`
	ChangedAt    string `json:"changed_at"`
	CreatedAt    string `json:"created_at"`
}

type EventDTO struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Place                PlaceDTO `json:"place"`
	EventTime            string   `json:"event_time"`
	RegistrationDeadline string   `json:"registration_deadline"`
	Status               string   `json:"status"`
	NumberOfVisitors     int      `json:"number_of_visitors"`
	ChangedAt            string   `json:"changed_at"`
	CreatedAt            string   `json:"created_at"`
	StatusChangedAt      *string  `json:"status_changed_at,omitempty"`
}

type ListEventsResponse struct {
	Next     string     `json:"next"`
	Previous string     `json:"previous"`
	Count    int        `json:"count"`
	Results  []EventDTO `json:"results"`
}

type GetEventResponse struct {
	Event EventDTO `json:"event"`
}

type GetEventSeatsResponse struct {
	Seats []string `json:"seats"`
}

type TriggerSyncResponse struct {
	Status string `json:"status"`
}
