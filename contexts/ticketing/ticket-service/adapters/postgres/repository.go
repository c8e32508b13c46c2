package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ticketaggregator/contexts/ticketing/ticket-service/domain/entities"
	domainerrors "ticketaggregator/contexts/ticketing/ticket-service/domain/errors"
	"ticketaggregator/contexts/ticketing/ticket-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
	outboxStatusFailed  = "failed"
)

// Repository is the gorm-backed adapter for tickets, the outbox and
// idempotency records. It implements ports.TicketRepository,
// ports.OutboxStore and ports.IdempotencyStore.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// SaveTicketTransactional inserts the ticket, its outbox row, and (when
// idempotency is non-nil) its idempotency record in one transaction, per
// the pipeline's step 7 atomicity requirement.
func (r *Repository) SaveTicketTransactional(
	ctx context.Context,
	ticket entities.Ticket,
	outboxEventType string,
	outboxPayload []byte,
	idempotency *ports.IdempotencyRecord,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := ticketModelFromEntity(ticket)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		outboxRow := outboxModel{
			ID:        ticket.ID + ":created",
			EventType: outboxEventType,
			Payload:   outboxPayload,
			Status:    outboxStatusPending,
			CreatedAt: ticket.CreatedAt,
			UpdatedAt: ticket.CreatedAt,
		}
		if err := tx.Create(&outboxRow).Error; err != nil {
			return err
		}

		if idempotency != nil {
			idempotencyRow := idempotencyModel{
				Key:         strings.TrimSpace(idempotency.Key),
				RequestHash: idempotency.RequestHash,
				TicketID:    idempotency.TicketID,
				ExpiresAt:   idempotency.ExpiresAt.UTC(),
				CreatedAt:   ticket.CreatedAt,
			}
			if err := tx.Create(&idempotencyRow).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrIdempotencyConflict
				}
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetTicket(ctx context.Context, id string) (entities.Ticket, error) {
	var row ticketModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(id)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ticket{}, domainerrors.ErrTicketNotFound
		}
		return entities.Ticket{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) DeleteTicket(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(id)).
		Delete(&ticketModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTicketNotFound
	}
	return nil
}

// GetPending claims up to limit pending outbox rows with FOR UPDATE SKIP
// LOCKED so multiple worker instances never contend on the same row.
func (r *Repository) GetPending(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]ports.OutboxRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toRecord())
	}
	return items, nil
}

func (r *Repository) MarkSent(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     outboxStatusSent,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *Repository) IncrementRetry(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"retry_count": gorm.Expr("retry_count + 1"),
			"status":      outboxStatusPending,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *Repository) MarkFailed(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     outboxStatusFailed,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *Repository) DeleteOlderThanSent(ctx context.Context, cutoff time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", outboxStatusSent, cutoff.UTC()).
		Delete(&outboxModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) Get(ctx context.Context, key string) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}
	return row.toRecord(), true, nil
}

func (r *Repository) Save(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(record.Key),
		RequestHash: record.RequestHash,
		TicketID:    record.TicketID,
		ExpiresAt:   record.ExpiresAt.UTC(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrIdempotencyConflict
		}
		return err
	}
	return nil
}

func (r *Repository) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&idempotencyModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
