package model

import "time"

// Booking reserves one machine for one timeslot on one date.
//
// The (machine, date, timeslot) triple is unique at the store level.
type Booking struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	UserID        int64     `gorm:"index;not null" json:"userId"`
	MachineID     int64     `gorm:"not null;uniqueIndex:idx_booking_slot,priority:1" json:"machineId"`
	BookingDate   string    `gorm:"size:10;not null;uniqueIndex:idx_booking_slot,priority:2;index" json:"bookingDate"`
	TimeslotID    *int64    `gorm:"uniqueIndex:idx_booking_slot,priority:3" json:"timeslotId"`
	LaundryRoomID int64     `gorm:"index;not null" json:"laundryRoomId"`
	BookedOn      string    `gorm:"size:10;not null" json:"bookedOn"`
	CreatedAt     time.Time `json:"createdAt"`

	// Associations
	User        User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Machine     LaundryMachine `gorm:"foreignKey:MachineID;constraint:OnDelete:CASCADE" json:"-"`
	Timeslot    *Timeslot      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	LaundryRoom LaundryRoom    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
