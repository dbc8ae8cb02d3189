package store

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"laundry-booking-backend/internal/model"
	"laundry-booking-backend/internal/parse"
)

// CreateBooking reserves a machine for a timeslot on a date.
//
// An identical (machine, date, timeslot) booking yields ErrSlotTaken. The lookup
// before the insert only saves a round trip; the idx_booking_slot unique index
// decides races between concurrent requests.
func (s *gormStore) CreateBooking(ctx context.Context, in NewBooking) (*BookingView, error) {
	date, err := parse.Date(in.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	db := s.db.WithContext(ctx)

	room, err := s.GetRoom(ctx, in.LaundryRoomID)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	var machine model.LaundryMachine
	if err := db.First(&machine, in.MachineID).Error; err != nil {
		return nil, notFound(err, "machine")
	}
	if machine.LaundryRoomID != room.ID {
		return nil, fmt.Errorf("%w: machine %d is not in laundry room %d", ErrInvalid, machine.ID, room.ID)
	}

	var slot model.Timeslot
	if err := db.First(&slot, in.TimeslotID).Error; err != nil {
		return nil, notFound(err, "timeslot")
	}
	if slot.ComplexID != room.ComplexID {
		return nil, fmt.Errorf("%w: timeslot %d does not belong to laundry room %d", ErrInvalid, slot.ID, room.ID)
	}

	var existing int64
	err = db.Model(&model.Booking{}).
		Where("machine_id = ? AND booking_date = ? AND timeslot_id = ?", in.MachineID, date, in.TimeslotID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check booking conflicts: %w", err)
	}
	if existing > 0 {
		return nil, ErrSlotTaken
	}

	timeslotID := in.TimeslotID
	booking := model.Booking{
		UserID:        in.UserID,
		MachineID:     in.MachineID,
		TimeslotID:    &timeslotID,
		LaundryRoomID: in.LaundryRoomID,
		BookingDate:   date,
		BookedOn:      s.now().Format(parse.DateLayout),
	}
	if err := db.Omit("User", "Machine", "Timeslot", "LaundryRoom").Create(&booking).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	log.Printf("Booked machine %d on %s slot %d for user %d", booking.MachineID, booking.BookingDate, timeslotID, booking.UserID)

	return s.GetBooking(ctx, booking.ID)
}

func (s *gormStore) GetBooking(ctx context.Context, id int64) (*BookingView, error) {
	var b model.Booking
	if err := s.bookingQuery(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err, "booking")
	}
	v := toBookingView(b)
	return &v, nil
}

func (s *gormStore) BookingsForUser(ctx context.Context, userID int64) ([]BookingView, error) {
	return s.findBookings(ctx, "bookings.user_id = ?", userID)
}

func (s *gormStore) BookingsForRoom(ctx context.Context, roomID int64) ([]BookingView, error) {
	return s.findBookings(ctx, "bookings.laundry_room_id = ?", roomID)
}

func (s *gormStore) BookingsForMachine(ctx context.Context, machineID int64) ([]BookingView, error) {
	return s.findBookings(ctx, "bookings.machine_id = ?", machineID)
}

func (s *gormStore) BookingsForRoomOnDate(ctx context.Context, roomID int64, date string) ([]BookingView, error) {
	d, err := parse.Date(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return s.findBookings(ctx, "bookings.laundry_room_id = ? AND bookings.booking_date = ?", roomID, d)
}

// UpcomingBookings returns the room's bookings dated today or later.
func (s *gormStore) UpcomingBookings(ctx context.Context, roomID int64, today string) ([]BookingView, error) {
	return s.findBookings(ctx, "bookings.laundry_room_id = ? AND bookings.booking_date >= ?", roomID, today)
}

func (s *gormStore) DeleteBooking(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Booking{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete booking %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("booking: %w", ErrNotFound)
	}
	return nil
}

func (s *gormStore) bookingQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("User").
		Preload("Machine").
		Preload("Timeslot")
}

func (s *gormStore) findBookings(ctx context.Context, query string, args ...any) ([]BookingView, error) {
	var rows []model.Booking
	err := s.bookingQuery(ctx).
		Where(query, args...).
		Order("bookings.booking_date").Order("bookings.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	views := make([]BookingView, 0, len(rows))
	for _, b := range rows {
		views = append(views, toBookingView(b))
	}
	return views, nil
}

// toBookingView flattens a booking and its preloaded associations.
func toBookingView(b model.Booking) BookingView {
	v := BookingView{
		ID:            b.ID,
		UserID:        b.UserID,
		MachineID:     b.MachineID,
		MachineName:   NotAvailable,
		MachineType:   NotAvailable,
		TimeslotID:    b.TimeslotID,
		LaundryRoomID: b.LaundryRoomID,
		BookingDate:   b.BookingDate,
		BookedOn:      b.BookedOn,
		Apartment:     NotAvailable,
		FullName:      NotAvailable,
		StartTime:     NotAvailable,
		EndTime:       NotAvailable,
	}
	if b.User.ID != 0 {
		v.Apartment = b.User.Apartment
		v.FullName = b.User.FullName
	}
	if b.Machine.ID != 0 {
		v.MachineName = b.Machine.Name
		v.MachineType = b.Machine.Type
	}
	if b.Timeslot != nil {
		v.StartTime = b.Timeslot.StartTime.String()
		v.EndTime = b.Timeslot.EndTime.String()
	}
	return v
}
