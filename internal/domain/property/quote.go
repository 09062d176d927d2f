package property

import (
	"time"

	"github.com/google/uuid"
)

// Quote is a provider's priced bid against an intervention. At most one quote
// per intervention may ever hold status "accepted"; once one does, every other
// quote of that intervention is rejected or cancelled.
type Quote struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	InterventionID uuid.UUID `gorm:"type:uuid;not null;index" json:"intervention_id"`
	ProviderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`

	AmountCents int64  `gorm:"not null;default:0" json:"amount_cents"`
	Currency    string `gorm:"type:varchar(3);not null;default:'EUR'" json:"currency"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	Status          QuoteStatus `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	ValidatedBy     *uuid.UUID  `gorm:"type:uuid" json:"validated_by,omitempty"`
	ValidatedAt     *time.Time  `json:"validated_at,omitempty"`
	RejectionReason string      `gorm:"type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Quote) TableName() string { return "quote" }
