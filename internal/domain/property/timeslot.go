package property

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is a proposed or agreed window for on-site work. Provider-specific
// slots (ProviderID set) follow their provider into the child intervention on
// a multi-provider split.
type TimeSlot struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	InterventionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"intervention_id"`
	ProviderID     *uuid.UUID `gorm:"type:uuid;index" json:"provider_id,omitempty"`

	StartsAt time.Time `gorm:"not null" json:"starts_at"`
	EndsAt   time.Time `gorm:"not null" json:"ends_at"`
	Selected bool      `gorm:"not null;default:false" json:"selected"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (TimeSlot) TableName() string { return "intervention_time_slot" }
