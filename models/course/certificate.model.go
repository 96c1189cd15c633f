package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is issued at most once per (user, course) pair. The unique
// index is what makes concurrent issuance safe; application code treats a
// duplicate-key insert as "already issued".
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	CertificateURL    string    `json:"certificate_url"`
	IssuedAt          time.Time `json:"issued_at"`
}
