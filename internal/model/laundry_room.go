package model

import "time"

// LaundryRoom belongs to a complex and holds its machines.
type LaundryRoom struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	ComplexID int64     `gorm:"index;not null" json:"complexId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Complex  ApartmentComplex `gorm:"foreignKey:ComplexID;constraint:OnDelete:CASCADE" json:"-"`
	Machines []LaundryMachine `gorm:"foreignKey:LaundryRoomID;constraint:OnDelete:CASCADE" json:"machines,omitempty"`
}
