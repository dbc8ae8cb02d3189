package store

import (
	"laundry-booking-backend/internal/model"
)

// NotAvailable is rendered for display fields whose source row no longer exists.
const NotAvailable = "N/A"

// NewUser carries the fields required to create a user. PasswordHash must already be hashed.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	UserType     string
	Apartment    string
	IsAdmin      bool
	// ComplexID, when set, records the user as a resident of that complex.
	ComplexID *int64
}

// UserUpdate holds optional profile changes; nil fields are left untouched.
type UserUpdate struct {
	Email        *string
	FullName     *string
	UserType     *string
	Apartment    *string
	IsAdmin      *bool
	PasswordHash *string
}

// UserWithComplexes is a user together with the complexes they live in.
type UserWithComplexes struct {
	model.User
	Complexes []model.ApartmentComplex
}

// NewComplex carries the fields required to create an apartment complex.
type NewComplex struct {
	Name    string
	Street  string
	City    string
	Zipcode int
}

// NewRoom carries the fields required to create a laundry room.
type NewRoom struct {
	Name      string
	ComplexID int64
}

// RoomWithMachines is a laundry room with its machines and owning complex name.
type RoomWithMachines struct {
	ID          int64                  `json:"id"`
	Name        string                 `json:"name"`
	ComplexID   int64                  `json:"complexId"`
	ComplexName string                 `json:"complexName"`
	Machines    []model.LaundryMachine `json:"machines"`
}

// NewBooking carries the fields required to create a booking.
type NewBooking struct {
	UserID        int64
	MachineID     int64
	TimeslotID    int64
	LaundryRoomID int64
	// BookingDate is a canonical YYYY-MM-DD date.
	BookingDate string
}

// BookingView is a booking enriched with the display fields shown to residents.
type BookingView struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"userId"`
	MachineID     int64  `json:"machineId"`
	MachineName   string `json:"machineName"`
	MachineType   string `json:"machineType"`
	TimeslotID    *int64 `json:"timeslotId"`
	LaundryRoomID int64  `json:"laundryRoomId"`
	BookingDate   string `json:"bookingDate"`
	BookedOn      string `json:"bookedOn"`
	Apartment     string `json:"apartment"`
	FullName      string `json:"fullName"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
}

// TimeslotInput is one desired timeslot in a settings save.
type TimeslotInput struct {
	StartTime model.TimeOfDay
	EndTime   model.TimeOfDay
}

// MachineInput is one desired machine in a settings save. Type must be normalized.
type MachineInput struct {
	Name string
	Type string
}

// SettingsInput is the desired full state of a room's settings.
type SettingsInput struct {
	MaxBookingsPerUser int
	AllowShowUserInfo  bool
	Timeslots          []TimeslotInput
	Machines           []MachineInput
}

// SettingsView is the current settings of a room and its complex.
type SettingsView struct {
	RoomID             int64                  `json:"roomId"`
	RoomName           string                 `json:"roomName"`
	ComplexID          int64                  `json:"complexId"`
	MaxBookingsPerUser int                    `json:"maxBookingsPerUser"`
	AllowShowUserInfo  bool                   `json:"allowShowUserInfo"`
	Timeslots          []model.Timeslot       `json:"timeslots"`
	Machines           []model.LaundryMachine `json:"machines"`
}

// SettingsResult reports what a settings save replaced.
type SettingsResult struct {
	TimeslotsCreated int `json:"timeslotsCreated"`
	MachinesCreated  int `json:"machinesCreated"`
	// BookingsRemoved counts bookings of deleted machines, dropped by cascade.
	BookingsRemoved int64 `json:"bookingsRemoved"`
	// BookingsDetached counts bookings whose timeslot was deleted; they keep a NULL timeslot.
	BookingsDetached int64 `json:"bookingsDetached"`
}
