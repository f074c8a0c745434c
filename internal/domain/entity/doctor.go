package entity

import (
	"time"

	"github.com/google/uuid"
)

// Doctor represents a member of the doctor roster. Availability windows are
// exclusively owned by the doctor and deleted with it; appointments are not
// (they keep a denormalized doctor name, see Appointment).
type Doctor struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Department string    `gorm:"type:varchar(100);not null;index" json:"department"`
	Fee        string    `gorm:"type:varchar(20)" json:"fee"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Windows []AvailabilityWindow `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"windows,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// AvailabilityWindow is a contiguous time-of-day interval [start, end) during
// which the doctor accepts appointments. Windows are calendar-day-independent:
// the same set applies to every date. Boundaries are stored as HH:MM strings
// aligned to the window definition granularity.
type AvailabilityWindow struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	StartTime string    `gorm:"type:varchar(5);not null" json:"start_time"` // HH:MM
	EndTime   string    `gorm:"type:varchar(5);not null" json:"end_time"`   // HH:MM
}

func (AvailabilityWindow) TableName() string {
	return "availability_windows"
}
