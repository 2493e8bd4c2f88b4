package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column widths of the normalized identity parts.
const (
	MaxVINLength   = 32
	MaxPlateLength = 32
)

// Vehicle is a registered vehicle. VehicleKey is the content-addressed
// "sha256:" id of the normalized VIN and plate; it is unique per vehicle.
type Vehicle struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	VehicleKey       string    `gorm:"type:varchar(71);uniqueIndex;not null" json:"vehicle_key"`
	VIN              string    `gorm:"column:vin;type:varchar(32);not null;index" json:"vin"`
	PlateNumber      string    `gorm:"type:varchar(32);not null;index" json:"plate_number"`
	JurisdictionCode string    `gorm:"type:varchar(64);not null;index" json:"jurisdiction_code"`
	CreatedByOrgID   uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by_org_id"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
