package course

import "gorm.io/gorm"

// Course levels
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// Course represents a learning course in the catalog
type Course struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"index"` // Agriculture, Technology, Business, Health, Education
	Level       string `json:"level" gorm:"index"`    // Beginner, Intermediate, Advanced
	Duration    string `json:"duration"`              // nominal duration, e.g. "6 weeks"
	ImageURL    string `json:"image_url"`
	// Denormalized counters maintained by writers and reconciled nightly.
	// Progress/certificate computation never trusts them.
	Students    int  `json:"students" gorm:"default:0"`
	Lessons     int  `json:"lessons" gorm:"default:0"`
	IsPublished bool `json:"is_published" gorm:"default:false"`
	IsDeleted   bool `gorm:"default:false"`
}
