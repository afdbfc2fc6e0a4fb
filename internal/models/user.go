package models

import (
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/sportsbuddy/sportsbuddy/pkg/utils"
)

// Skill levels ordered from least to most experienced
const (
	SkillBeginner     = "Beginner"
	SkillIntermediate = "Intermediate"
	SkillAdvanced     = "Advanced"
	SkillProfessional = "Professional"
)

// Availability describes when a user is free to play. Days holds weekday
// tags ("Mon".."Sun"), TimeRange a single "HH:MM-HH:MM" window.
type Availability struct {
	Days      pq.StringArray `gorm:"type:text[]" json:"days"`
	TimeRange string         `json:"time"`
}

// IsEmpty reports whether no availability data was provided
func (a Availability) IsEmpty() bool {
	return len(a.Days) == 0 && a.TimeRange == ""
}

// User represents a player or coach looking for matches
type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	Sport        string       `gorm:"not null;index" json:"sport"`
	SkillLevel   string       `gorm:"not null" json:"skill_level"`
	Age          int          `json:"age"`
	City         string       `gorm:"index" json:"city"`
	Latitude     float64      `gorm:"not null;index" json:"latitude"`
	Longitude    float64      `gorm:"not null;index" json:"longitude"`
	Rating       float64      `gorm:"default:5.0" json:"rating"`
	ProfileImage string       `json:"avatar,omitempty"`
	IsActive     bool         `gorm:"default:true;index" json:"is_active"`
	Availability Availability `gorm:"embedded;embeddedPrefix:availability_" json:"availability"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// EffectiveRating substitutes the neutral default when no rating is stored
func (u *User) EffectiveRating() float64 {
	if u.Rating <= 0 {
		return 5.0
	}
	return u.Rating
}

// Validate enforces the ingestion contract: identity, sport and sane
// coordinates must be present before a user reaches the matching or
// analytics pipelines.
func (u *User) Validate() error {
	if u.ID == 0 {
		return utils.NewAppError(utils.ErrCodeValidation, "user id is required")
	}
	if u.Sport == "" {
		return utils.NewAppError(utils.ErrCodeValidation, "sport is required",
			fmt.Sprintf("user %d has no sport", u.ID))
	}
	if u.SkillLevel == "" {
		return utils.NewAppError(utils.ErrCodeValidation, "skill level is required",
			fmt.Sprintf("user %d has no skill level", u.ID))
	}
	if u.Latitude < -90 || u.Latitude > 90 {
		return utils.NewAppError(utils.ErrCodeValidation, "latitude out of range",
			fmt.Sprintf("user %d latitude %.6f", u.ID, u.Latitude))
	}
	if u.Longitude < -180 || u.Longitude > 180 {
		return utils.NewAppError(utils.ErrCodeValidation, "longitude out of range",
			fmt.Sprintf("user %d longitude %.6f", u.ID, u.Longitude))
	}
	return nil
}
