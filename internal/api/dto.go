package api

import (
	"laundry-booking-backend/internal/model"
	"laundry-booking-backend/internal/parse"
	"laundry-booking-backend/internal/store"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

type registerRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=128"`
	Email     string `json:"email" binding:"required,email,max=256"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
	FullName  string `json:"fullName" binding:"max=256"`
	Apartment string `json:"apartment" binding:"max=64"`
}

type createUserRequest struct {
	registerRequest
	UserType  string `json:"userType" binding:"omitempty,oneof=SystemAdmin ComplexAdmin DailyUser"`
	IsAdmin   bool   `json:"isAdmin"`
	ComplexID *int64 `json:"complexId" binding:"omitempty,gt=0"`
}

type updateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=256"`
	Password  *string `json:"password" binding:"omitempty,min=6,max=72"`
	FullName  *string `json:"fullName" binding:"omitempty,max=256"`
	Apartment *string `json:"apartment" binding:"omitempty,max=64"`
	UserType  *string `json:"userType" binding:"omitempty,oneof=SystemAdmin ComplexAdmin DailyUser"`
	IsAdmin   *bool   `json:"isAdmin"`
}

type createComplexRequest struct {
	Name    string `json:"name" binding:"required,max=128"`
	Street  string `json:"street" binding:"max=256"`
	City    string `json:"city" binding:"max=128"`
	Zipcode int    `json:"zipcode" binding:"gte=0"`
}

type createRoomRequest struct {
	Name      string `json:"name" binding:"required,max=128"`
	ComplexID int64  `json:"complexId" binding:"required,gt=0"`
}

type createBookingRequest struct {
	UserID        int64  `json:"userId" binding:"omitempty,gt=0"`
	MachineID     int64  `json:"machineId" binding:"required,gt=0"`
	TimeslotID    int64  `json:"timeslotId" binding:"required,gt=0"`
	LaundryRoomID int64  `json:"laundryRoomId" binding:"required,gt=0"`
	BookingDate   string `json:"bookingDate" binding:"required,isodate"`
}

type timeslotRequest struct {
	StartTime string `json:"startTime" binding:"required,timeofday"`
	EndTime   string `json:"endTime" binding:"required,timeofday"`
}

type machineRequest struct {
	Name string `json:"name" binding:"required,max=128"`
	Type string `json:"type" binding:"required,machinetype"`
}

type settingsRequest struct {
	MaxBookingsPerUser int               `json:"maxBookingsPerUser" binding:"required,gt=0"`
	AllowShowUserInfo  bool              `json:"allowShowUserInfo"`
	Timeslots          []timeslotRequest `json:"timeslots" binding:"dive"`
	Machines           []machineRequest  `json:"machines" binding:"dive"`
}

type settingsResponse struct {
	Settings *store.SettingsView   `json:"settings"`
	Replaced *store.SettingsResult `json:"replaced"`
}

// toInput converts a bound request; the binding tags have already vetted each value.
func (r settingsRequest) toInput() (store.SettingsInput, error) {
	in := store.SettingsInput{
		MaxBookingsPerUser: r.MaxBookingsPerUser,
		AllowShowUserInfo:  r.AllowShowUserInfo,
		Timeslots:          make([]store.TimeslotInput, 0, len(r.Timeslots)),
		Machines:           make([]store.MachineInput, 0, len(r.Machines)),
	}
	for _, ts := range r.Timeslots {
		start, err := timeOfDay(ts.StartTime)
		if err != nil {
			return in, err
		}
		end, err := timeOfDay(ts.EndTime)
		if err != nil {
			return in, err
		}
		in.Timeslots = append(in.Timeslots, store.TimeslotInput{StartTime: start, EndTime: end})
	}
	for _, m := range r.Machines {
		typ, err := parse.MachineType(m.Type)
		if err != nil {
			return in, err
		}
		in.Machines = append(in.Machines, store.MachineInput{Name: m.Name, Type: typ})
	}
	return in, nil
}

func timeOfDay(raw string) (model.TimeOfDay, error) {
	h, m, s, err := parse.Clock(raw)
	if err != nil {
		return 0, err
	}
	return model.NewTimeOfDay(h, m, s), nil
}

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}
