package model

// Machine types.
const (
	MachineTypeWasher = "Washer"
	MachineTypeDryer  = "Dryer"
)

// Machine statuses.
const (
	MachineStatusAvailable = "Available"
	MachineStatusInUse     = "InUse"
)

// LaundryMachine is a single washer or dryer in a laundry room.
type LaundryMachine struct {
	ID            int64  `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"size:128;not null" json:"name"`
	Type          string `gorm:"size:16;not null;default:'Washer'" json:"type"`
	Status        string `gorm:"size:16;not null;default:'Available'" json:"status"`
	LaundryRoomID int64  `gorm:"index;not null" json:"laundryRoomId"`

	// Associations
	LaundryRoom LaundryRoom `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
