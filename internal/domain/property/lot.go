package property

import (
	"time"

	"github.com/google/uuid"
)

// Lot and Building exist here only so the engine can resolve the managers an
// intervention targets; their CRUD lives outside this service.
type Building struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TeamID  uuid.UUID `gorm:"type:uuid;not null;index" json:"team_id"`
	Name    string    `gorm:"not null" json:"name"`
	Address string    `gorm:"type:text" json:"address,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Building) TableName() string { return "building" }

type Lot struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BuildingID *uuid.UUID `gorm:"type:uuid;index" json:"building_id,omitempty"`
	Reference  string     `gorm:"not null" json:"reference"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Lot) TableName() string { return "lot" }

// LotManager links a manager user to a lot.
type LotManager struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LotID  uuid.UUID `gorm:"type:uuid;not null;index" json:"lot_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (LotManager) TableName() string { return "lot_manager" }
