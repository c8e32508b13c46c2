package entities

import "time"

// SyncStatus is the cooperative lock state of the singleton SyncMetadata row.
type SyncStatus string

const (
	SyncStatusPending    SyncStatus = "pending"
	SyncStatusInProgress SyncStatus = "in_progress"
	SyncStatusSuccess    SyncStatus = "success"
	SyncStatusFailed     SyncStatus = "failed"
)

// SyncMetadata is the singleton watermark row (fixed key 1) guarding
// mutual exclusion between sync runs.
type SyncMetadata struct {
	LastSyncAt    *time.Time
	LastChangedAt *time.Time
	Status        SyncStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
