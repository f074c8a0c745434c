package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents a registered patient account
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Contact   string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"contact"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// Role constants carried in JWT claims
const (
	RoleAdmin   = "admin"
	RolePatient = "patient"
)
