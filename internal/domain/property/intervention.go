package property

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Intervention is a maintenance/service request tracked through the status
// lifecycle. Rows are never deleted; cancellation is a terminal status.
type Intervention struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	TeamID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"team_id"`
	LotID      *uuid.UUID `gorm:"type:uuid;index" json:"lot_id,omitempty"`
	BuildingID *uuid.UUID `gorm:"type:uuid;index" json:"building_id,omitempty"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Urgency     string `gorm:"not null;default:'normal'" json:"urgency"`

	Status        InterventionStatus `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	ScheduledDate *time.Time         `gorm:"column:scheduled_date" json:"scheduled_date,omitempty"`

	RequiresParticipantConfirmation bool `gorm:"not null;default:false" json:"requires_participant_confirmation"`

	// ParentInterventionID is set only on children produced by a
	// multi-provider split and is immutable once set.
	ParentInterventionID *uuid.UUID `gorm:"type:uuid;index" json:"parent_intervention_id,omitempty"`

	CreatedBy uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Intervention) TableName() string { return "intervention" }

// IsChild reports whether this intervention was produced by a split.
func (i *Intervention) IsChild() bool {
	return i != nil && i.ParentInterventionID != nil && *i.ParentInterventionID != uuid.Nil
}
