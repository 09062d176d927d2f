package property

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityLogEntry is an append-only record written as a side effect of every
// state-changing operation. The engine never reads it back.
type ActivityLogEntry struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	EntityType string    `gorm:"type:varchar(32);not null;index:idx_activity_entity" json:"entity_type"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_activity_entity" json:"entity_id"`

	Action     string `gorm:"type:varchar(64);not null" json:"action"`
	FromStatus string `gorm:"type:varchar(32)" json:"from_status,omitempty"`
	ToStatus   string `gorm:"type:varchar(32)" json:"to_status,omitempty"`

	ActorID  uuid.UUID      `gorm:"type:uuid" json:"actor_id"`
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ActivityLogEntry) TableName() string { return "activity_log" }
