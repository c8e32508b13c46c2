package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ticketaggregator/contexts/catalogue/catalogue-service/domain/entities"
	domainerrors "ticketaggregator/contexts/catalogue/catalogue-service/domain/errors"
	"ticketaggregator/contexts/catalogue/catalogue-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	syncStatusPending    = "pending"
	syncStatusInProgress = "in_progress"
	syncStatusSuccess    = "success"
	syncStatusFailed     = "failed"
)

// Repository is the gorm-backed adapter for places, events and the sync
// watermark. It implements ports.PlaceRepository, ports.EventRepository and
// ports.SyncMetadataStore.
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

func (r *Repository) UpsertPlace(ctx context.Context, place ports.PlaceUpsert) error {
	row := placeModelFromUpsert(place)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "city", "address", "seats_pattern", "changed_at",
		}),
	}).Create(&row)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetPlace(ctx context.Context, id string) (entities.Place, error) {
	var row placeModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(id)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Place{}, domainerrors.ErrPlaceNotFound
		}
		return entities.Place{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpsertEvent(ctx context.Context, event ports.EventUpsert) error {
	row := eventModelFromUpsert(event)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "place_id", "event_time", "registration_deadline",
			"status", "number_of_visitors", "changed_at", "status_changed_at",
		}),
	}).Create(&row)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetEvent(ctx context.Context, id string) (entities.Event, error) {
	var row eventModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(id)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Event{}, domainerrors.ErrEventNotFound
		}
		return entities.Event{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListEvents(ctx context.Context, filter ports.ListEventsFilter) ([]entities.Event, int, error) {
	tx := r.db.WithContext(ctx).Model(&eventModel{})
	if filter.DateFrom != nil {
		tx = tx.Where("event_time >= ?", filter.DateFrom.UTC())
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	var rows []eventModel
	if err := tx.
		Order("event_time ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).
		Error; err != nil {
		return nil, 0, err
	}

	items := make([]entities.Event, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, int(total), nil
}

// AcquireLock implements the cooperative mutual-exclusion protocol over the
// singleton sync_metadata row: insert it in_progress if absent, claim it if
// free, or report contention if another syncer already holds it.
func (r *Repository) AcquireLock(ctx context.Context, now time.Time) (bool, *time.Time, error) {
	var acquired bool
	var lastChangedAt *time.Time

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row syncMetadataModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", syncMetadataSingletonID).
			First(&row).
			Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row = syncMetadataModel{
				ID:         syncMetadataSingletonID,
				LastSyncAt: &now,
				Status:     syncStatusInProgress,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			acquired = true
			return nil
		}

		if row.Status == syncStatusInProgress {
			acquired = false
			return nil
		}

		lastChangedAt = normalizeOptionalTime(row.LastChangedAt)
		if err := tx.Model(&syncMetadataModel{}).
			Where("id = ?", syncMetadataSingletonID).
			Updates(map[string]any{
				"sync_status":  syncStatusInProgress,
				"last_sync_at": now,
				"updated_at":   now,
			}).Error; err != nil {
			return err
		}
		acquired = true
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return acquired, lastChangedAt, nil
}

func (r *Repository) ReleaseLock(ctx context.Context, success bool, newLastChangedAt *time.Time) error {
	updates := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if success {
		updates["sync_status"] = syncStatusSuccess
		if newLastChangedAt != nil {
			updates["last_changed_at"] = newLastChangedAt.UTC()
		}
	} else {
		updates["sync_status"] = syncStatusFailed
	}

	return r.db.WithContext(ctx).
		Model(&syncMetadataModel{}).
		Where("id = ?", syncMetadataSingletonID).
		Updates(updates).
		Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
