package domain

import "time"

// ViewSnapshot is the persisted copy of the last synchronized CustomerView.
// It exists so a restarted dashboard comes back with the most recent data;
// it is a cache, not a source of truth, and is overwritten on every sync.
type ViewSnapshot struct {
	CustomerID string    `gorm:"type:text;primaryKey" json:"customer_id"`
	Payload    []byte    `gorm:"type:blob" json:"-"`
	SyncedAt   time.Time `json:"synced_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name for ViewSnapshot.
func (ViewSnapshot) TableName() string {
	return "view_snapshots"
}
