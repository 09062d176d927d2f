package property

import (
	"time"

	"github.com/google/uuid"
)

// Assignment links a user to an intervention with a role and an optional
// confirmation requirement. confirmation_status only moves pending->confirmed
// or pending->rejected; both are terminal, a reschedule creates a new row.
type Assignment struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	InterventionID uuid.UUID `gorm:"type:uuid;not null;index:idx_assignment_intervention_user" json:"intervention_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_assignment_intervention_user" json:"user_id"`

	Role      Role `gorm:"type:varchar(16);not null" json:"role"`
	IsPrimary bool `gorm:"not null;default:false" json:"is_primary"`

	RequiresConfirmation bool               `gorm:"not null;default:false" json:"requires_confirmation"`
	ConfirmationStatus   ConfirmationStatus `gorm:"type:varchar(16);not null;default:'not_required'" json:"confirmation_status"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Assignment) TableName() string { return "intervention_assignment" }
