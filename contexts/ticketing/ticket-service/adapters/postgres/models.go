package postgresadapter

import (
	"time"

	"ticketaggregator/contexts/ticketing/ticket-service/domain/entities"
	"ticketaggregator/contexts/ticketing/ticket-service/ports"
)

type ticketModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	EventID   string    `gorm:"column:event_id"`
	Seat      string    `gorm:"column:seat"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (ticketModel) TableName() string { return "tickets" }

func ticketModelFromEntity(t entities.Ticket) ticketModel {
	return ticketModel{
		ID:        t.ID,
		EventID:   t.EventID,
		Seat:      t.Seat,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Email:     t.Email,
		CreatedAt: t.CreatedAt.UTC(),
	}
}

func (m ticketModel) toEntity() entities.Ticket {
	return entities.Ticket{
		ID:        m.ID,
		EventID:   m.EventID,
		Seat:      m.Seat,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

type outboxModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	EventType  string    `gorm:"column:event_type"`
	Payload    []byte    `gorm:"column:payload"`
	Status     string    `gorm:"column:status"`
	RetryCount int       `gorm:"column:retry_count"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (outboxModel) TableName() string { return "ticket_outbox" }

func (m outboxModel) toRecord() ports.OutboxRecord {
	return ports.OutboxRecord{
		ID:         m.ID,
		EventType:  m.EventType,
		Payload:    append([]byte(nil), m.Payload...),
		Status:     ports.OutboxStatus(m.Status),
		RetryCount: m.RetryCount,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	TicketID    string    `gorm:"column:ticket_id"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (idempotencyModel) TableName() string { return "ticket_idempotency" }

func (m idempotencyModel) toRecord() ports.IdempotencyRecord {
	return ports.IdempotencyRecord{
		Key:         m.Key,
		RequestHash: m.RequestHash,
		TicketID:    m.TicketID,
		ExpiresAt:   m.ExpiresAt.UTC(),
	}
}
