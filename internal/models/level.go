package models

// Level is static reference data mapping an XP threshold to a named
// tier. Seeded once; read-only at runtime. Level 1 always has
// XPRequired = 0 so every profile resolves to a level.
type Level struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	LevelNumber int    `gorm:"uniqueIndex;not null" json:"level_number"`
	Name        string `gorm:"not null;size:100" json:"name"`
	XPRequired  int    `gorm:"column:xp_required;uniqueIndex;not null" json:"xp_required"`
	BadgeIcon   string `gorm:"size:50" json:"badge_icon"`
}

// TableName specifies the table name for Level model.
func (Level) TableName() string {
	return "levels"
}
