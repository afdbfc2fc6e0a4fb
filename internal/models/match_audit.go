package models

import (
	"time"

	"gorm.io/datatypes"
)

// MatchAudit stores a ranking request and its result for analytics and
// offline evaluation of the scoring weights
type MatchAudit struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	Request   datatypes.JSON `json:"request"`
	Response  datatypes.JSON `json:"response"`
	TopScore  float64        `json:"top_score"`
	CreatedAt time.Time      `json:"created_at"`
}

// TableName specifies the table name for GORM
func (MatchAudit) TableName() string {
	return "match_audits"
}
