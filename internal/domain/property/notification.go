package property

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is the in-app channel row. Push and email fan out through the
// dispatcher without a stored counterpart.
type Notification struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	UserID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind    string         `gorm:"type:varchar(64);not null" json:"kind"`
	Title   string         `gorm:"not null" json:"title"`
	Message string         `gorm:"type:text" json:"message,omitempty"`
	Meta    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }
