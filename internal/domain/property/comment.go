package property

import (
	"time"

	"github.com/google/uuid"
)

// InterventionComment carries reasons and instructions on an intervention.
// Internal comments are visible to managers only. RecipientID is set on
// instructions addressed to one participant (used by the split to route
// provider-specific instructions to the right child).
type InterventionComment struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	InterventionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"intervention_id"`
	AuthorID       uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	RecipientID    *uuid.UUID `gorm:"type:uuid;index" json:"recipient_id,omitempty"`

	Body     string `gorm:"type:text;not null" json:"body"`
	Internal bool   `gorm:"not null;default:false" json:"internal"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (InterventionComment) TableName() string { return "intervention_comment" }
