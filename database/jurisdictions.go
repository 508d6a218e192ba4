package database

import (
	"encoding/json"
	"log"

	"github.com/cdlprep/cdl-prep-backend/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type jurisdictionSeed struct {
	Code         string
	Name         string
	Requirements map[string]interface{}
}

// Minimum age and knowledge-test requirements per state, taken from each
// state's CDL manual. Extend as coverage grows.
var jurisdictionSeeds = []jurisdictionSeed{
	{
		Code: "CA", Name: "California",
		Requirements: map[string]interface{}{
			"age":           18,
			"interstateAge": 21,
			"tests":         []string{"knowledge", "air_brakes", "skills"},
			"feeRange":      map[string]int{"min": 45, "max": 85},
			"medicalCard":   true,
		},
	},
	{
		Code: "NY", Name: "New York",
		Requirements: map[string]interface{}{
			"age":           18,
			"interstateAge": 21,
			"tests":         []string{"knowledge", "air_brakes", "skills"},
			"feeRange":      map[string]int{"min": 40, "max": 90},
			"medicalCard":   true,
		},
	},
	{
		Code: "TX", Name: "Texas",
		Requirements: map[string]interface{}{
			"age":           18,
			"interstateAge": 21,
			"tests":         []string{"knowledge", "air_brakes", "skills"},
			"feeRange":      map[string]int{"min": 25, "max": 97},
			"medicalCard":   true,
		},
	},
	{
		Code: "IA", Name: "Iowa",
		Requirements: map[string]interface{}{
			"age":           18,
			"interstateAge": 21,
			"permitHeld":    "14 days",
			"tests":         []string{"knowledge", "air_brakes", "skills"},
			"feeRange":      map[string]int{"min": 16, "max": 40},
			"medicalCard":   true,
		},
	},
	{
		Code: "FL", Name: "Florida",
		Requirements: map[string]interface{}{
			"age":           18,
			"interstateAge": 21,
			"tests":         []string{"knowledge", "air_brakes", "skills"},
			"feeRange":      map[string]int{"min": 75, "max": 75},
			"medicalCard":   true,
		},
	},
}

// SeedJurisdictions upserts the built-in jurisdiction set by code, so
// released requirement updates land on existing rows.
func SeedJurisdictions(db *gorm.DB) {
	for _, seed := range jurisdictionSeeds {
		payload, err := json.Marshal(seed.Requirements)
		if err != nil {
			log.Fatalf("🔥 Failed to marshal requirements for %s: %v", seed.Code, err)
		}

		jurisdiction := models.Jurisdiction{
			Code:         seed.Code,
			Name:         seed.Name,
			Type:         "us_state",
			Requirements: datatypes.JSON(payload),
			IsActive:     true,
		}

		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "type", "requirements", "is_active", "updated_at"}),
		}).Create(&jurisdiction).Error
		if err != nil {
			log.Fatalf("🔥 Failed to seed jurisdiction %s: %v", seed.Code, err)
		}
	}
	log.Printf("✅ Seeded %d jurisdictions", len(jurisdictionSeeds))
}
