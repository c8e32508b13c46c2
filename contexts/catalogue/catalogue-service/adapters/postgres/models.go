package postgresadapter

import (
	"time"

	"ticketaggregator/contexts/catalogue/catalogue-service/domain/entities"
	"ticketaggregator/contexts/catalogue/catalogue-service/ports"
)

type placeModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	City         string    `gorm:"column:city"`
	Address      string    `gorm:"column:address"`
	SeatsPattern string    `gorm:"column:seats_pattern"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	ChangedAt    time.Time `gorm:"column:changed_at"`
}

func (placeModel) TableName() string { return "places" }

func placeModelFromUpsert(item ports.PlaceUpsert) placeModel {
	return placeModel{
		ID:           item.ID,
		Name:         item.Name,
		City:         item.City,
		Address:      item.Address,
		SeatsPattern: item.SeatsPattern,
		CreatedAt:    item.CreatedAt.UTC(),
		ChangedAt:    item.ChangedAt.UTC(),
	}
}

func (m placeModel) toEntity() entities.Place {
	return entities.Place{
		ID:           m.ID,
		Name:         m.Name,
		City:         m.City,
		Address:      m.Address,
		SeatsPattern: m.SeatsPattern,
		CreatedAt:    m.CreatedAt.UTC(),
		ChangedAt:    m.ChangedAt.UTC(),
	}
}

type eventModel struct {
	ID                   string     `gorm:"column:id;primaryKey"`
	Name                 string     `gorm:"column:name"`
	PlaceID              string     `gorm:"column:place_id"`
	EventTime            time.Time  `gorm:"column:event_time"`
	RegistrationDeadline time.Time  `gorm:"column:registration_deadline"`
	Status               string     `gorm:"column:status"`
	NumberOfVisitors     int        `gorm:"column:number_of_visitors"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	ChangedAt            time.Time  `gorm:"column:changed_at"`
	StatusChangedAt      *time.Time `gorm:"column:status_changed_at"`
}

func (eventModel) TableName() string { return "events" }

func eventModelFromUpsert(item ports.EventUpsert) eventModel {
	return eventModel{
		ID:                   item.ID,
		Name:                 item.Name,
		PlaceID:              item.PlaceID,
		EventTime:            item.EventTime.UTC(),
		RegistrationDeadline: item.RegistrationDeadline.UTC(),
		Status:               item.Status,
		NumberOfVisitors:     item.NumberOfVisitors,
		CreatedAt:            item.CreatedAt.UTC(),
		ChangedAt:            item.ChangedAt.UTC(),
		StatusChangedAt:      normalizeOptionalTime(item.StatusChangedAt),
	}
}

func (m eventModel) toEntity() entities.Event {
	return entities.Event{
		ID:                   m.ID,
		Name:                 m.Name,
		PlaceID:              m.PlaceID,
		EventTime:            m.EventTime.UTC(),
		RegistrationDeadline: m.RegistrationDeadline.UTC(),
		Status:               entities.EventStatus(m.Status),
		NumberOfVisitors:     m.NumberOfVisitors,
		CreatedAt:            m.CreatedAt.UTC(),
		ChangedAt:            m.ChangedAt.UTC(),
		StatusChangedAt:      normalizeOptionalTime(m.StatusChangedAt),
	}
}

type syncMetadataModel struct {
	ID            int        `gorm:"column:id;primaryKey"`
	LastSyncAt    *time.Time `gorm:"column:last_sync_at"`
	LastChangedAt *time.Time `gorm:"column:last_changed_at"`
	Status        string     `gorm:"column:sync_status"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (syncMetadataModel) TableName() string { return "sync_metadata" }

// syncMetadataSingletonID is the fixed key guarding the single sync
// watermark row, per spec.
const syncMetadataSingletonID = 1

func normalizeOptionalTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
