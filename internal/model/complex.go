package model

import "time"

// ApartmentComplex is the tenancy grouping that owns laundry rooms and timeslots.
type ApartmentComplex struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Street    string    `gorm:"size:256" json:"street"`
	City      string    `gorm:"size:128" json:"city"`
	Zipcode   int       `json:"zipcode"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Settings     *ComplexSettings `gorm:"foreignKey:ComplexID;constraint:OnDelete:CASCADE" json:"settings,omitempty"`
	LaundryRooms []LaundryRoom    `gorm:"foreignKey:ComplexID;constraint:OnDelete:CASCADE" json:"laundryRooms,omitempty"`
	Timeslots    []Timeslot       `gorm:"foreignKey:ComplexID;constraint:OnDelete:CASCADE" json:"timeslots,omitempty"`
}

// LivesIn links a user to a complex they reside in.
type LivesIn struct {
	UserID    int64 `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	ComplexID int64 `gorm:"primaryKey;autoIncrement:false;index" json:"complexId"`

	User    User             `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Complex ApartmentComplex `gorm:"foreignKey:ComplexID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the join table name singular.
func (LivesIn) TableName() string { return "lives_in" }

// AdminManages grants a user administrative scope over a complex.
type AdminManages struct {
	UserID    int64 `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	ComplexID int64 `gorm:"primaryKey;autoIncrement:false;index" json:"complexId"`

	User    User             `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Complex ApartmentComplex `gorm:"foreignKey:ComplexID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the join table name singular.
func (AdminManages) TableName() string { return "admin_manages" }

// DefaultMaxBookingsPerUser is applied when a complex is created without explicit settings.
const DefaultMaxBookingsPerUser = 2

// ComplexSettings holds the per-complex booking rules.
type ComplexSettings struct {
	ID                 int64     `gorm:"primaryKey" json:"id"`
	ComplexID          int64     `gorm:"uniqueIndex;not null" json:"complexId"`
	MaxBookingsPerUser int       `gorm:"not null;default:2" json:"maxBookingsPerUser"`
	AllowShowUserInfo  bool      `gorm:"not null;default:false" json:"allowShowUserInfo"`
	UpdatedAt          time.Time `json:"updatedAt"`

	Complex ApartmentComplex `gorm:"foreignKey:ComplexID;constraint:OnDelete:CASCADE" json:"-"`
}
