package repository

import (
	"time"

	"github.com/usersadmin/usersadmin/internal/models"
)

// UserRecord is the stored form of a user account.
type UserRecord struct {
	ID            string    `gorm:"primaryKey;size:36"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
	Name          string `gorm:"size:64;not null"`
	SurName       string `gorm:"size:64;not null"`
	FullName      string `gorm:"size:129;not null"`
	Email         string `gorm:"uniqueIndex;size:255;not null"`
	Telephone     string `gorm:"size:16"`
	Employment    string `gorm:"size:16"`
	UserAgreement bool
	PasswordHash  string `gorm:"size:255;not null"`
}

func (UserRecord) TableName() string {
	return "users"
}

func (r UserRecord) ToUser() models.User {
	agreed := r.UserAgreement
	return models.User{
		ID:            r.ID,
		Name:          r.Name,
		SurName:       r.SurName,
		FullName:      r.FullName,
		Email:         r.Email,
		Telephone:     r.Telephone,
		Employment:    models.Employment(r.Employment),
		UserAgreement: &agreed,
	}
}
