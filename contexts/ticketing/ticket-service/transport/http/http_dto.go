package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateTicketRequest struct {
	EventID   string `json:"event_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Seat      string `json:"seat"`
}

type CreateTicketResponse struct {
	TicketID string `json:"ticket_id"`
	Replayed bool   `json:"replayed"`
}
