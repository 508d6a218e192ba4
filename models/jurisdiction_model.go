package models

import (
	"time"

	"gorm.io/datatypes"
)

// Jurisdiction is a US state (or similar region) whose CDL rules govern
// which questions apply. Requirements holds the licensing payload (fees,
// age, required knowledge tests) as served to the frontend.
type Jurisdiction struct {
	Code         string         `gorm:"size:10;primary_key" json:"code"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Type         string         `gorm:"size:30;not null;default:'us_state'" json:"type"`
	Requirements datatypes.JSON `gorm:"type:jsonb" json:"requirements,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
