package model

import "time"

// User types accepted on registration.
const (
	UserTypeSystemAdmin  = "SystemAdmin"
	UserTypeComplexAdmin = "ComplexAdmin"
	UserTypeDailyUser    = "DailyUser"
)

// User is a resident or administrator with login credentials.
type User struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:128;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:256;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     string     `gorm:"size:256" json:"fullName"`
	UserType     string     `gorm:"size:32;not null;default:'DailyUser'" json:"userType"`
	Apartment    string     `gorm:"size:64" json:"apartment"`
	IsAdmin      bool       `gorm:"not null;default:false" json:"isAdmin"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Associations
	LivesIn      []LivesIn      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AdminManages []AdminManages `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
