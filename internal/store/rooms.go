package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"laundry-booking-backend/internal/model"
)

// CreateRoom inserts a laundry room into an existing complex.
func (s *gormStore) CreateRoom(ctx context.Context, in NewRoom) (*model.LaundryRoom, error) {
	if _, err := s.GetComplex(ctx, in.ComplexID); err != nil {
		return nil, err
	}
	room := model.LaundryRoom{Name: in.Name, ComplexID: in.ComplexID}
	if err := s.db.WithContext(ctx).Omit("Machines").Create(&room).Error; err != nil {
		return nil, fmt.Errorf("failed to create laundry room %q: %w", in.Name, err)
	}
	return &room, nil
}

func (s *gormStore) GetRoom(ctx context.Context, id int64) (*model.LaundryRoom, error) {
	var room model.LaundryRoom
	if err := s.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, notFound(err, "laundry room")
	}
	return &room, nil
}

// RoomForUser returns the first laundry room of a complex the user lives in.
func (s *gormStore) RoomForUser(ctx context.Context, userID int64) (*model.LaundryRoom, error) {
	var room model.LaundryRoom
	err := s.db.WithContext(ctx).
		Joins("JOIN lives_in ON lives_in.complex_id = laundry_rooms.complex_id").
		Where("lives_in.user_id = ?", userID).
		Order("laundry_rooms.id").
		First(&room).Error
	if err != nil {
		return nil, notFound(err, "laundry room for user")
	}
	return &room, nil
}

// AccessibleRooms lists rooms and machines in every complex the user lives in or administers.
func (s *gormStore) AccessibleRooms(ctx context.Context, userID int64) ([]RoomWithMachines, error) {
	db := s.db.WithContext(ctx)
	lives := db.Model(&model.LivesIn{}).Select("complex_id").Where("user_id = ?", userID)
	manages := db.Model(&model.AdminManages{}).Select("complex_id").Where("user_id = ?", userID)

	var rooms []model.LaundryRoom
	err := db.Preload("Complex").
		Preload("Machines", func(tx *gorm.DB) *gorm.DB { return tx.Order("laundry_machines.id") }).
		Where("complex_id IN (?) OR complex_id IN (?)", lives, manages).
		Order("id").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load accessible rooms for user %d: %w", userID, err)
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("accessible rooms: %w", ErrNotFound)
	}

	out := make([]RoomWithMachines, 0, len(rooms))
	for _, r := range rooms {
		machines := r.Machines
		if machines == nil {
			machines = []model.LaundryMachine{}
		}
		out = append(out, RoomWithMachines{
			ID:          r.ID,
			Name:        r.Name,
			ComplexID:   r.ComplexID,
			ComplexName: r.Complex.Name,
			Machines:    machines,
		})
	}
	return out, nil
}

// TimeslotsForRoom returns the timeslots of the room's complex, earliest start first.
func (s *gormStore) TimeslotsForRoom(ctx context.Context, roomID int64) ([]model.Timeslot, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	slots, err := s.timeslotsForComplex(ctx, room.ComplexID)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("timeslots: %w", ErrNotFound)
	}
	return slots, nil
}

func (s *gormStore) timeslotsForComplex(ctx context.Context, complexID int64) ([]model.Timeslot, error) {
	var slots []model.Timeslot
	err := s.db.WithContext(ctx).
		Where("complex_id = ?", complexID).
		Order("start_time").Order("id").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load timeslots for complex %d: %w", complexID, err)
	}
	sortTimeslots(slots)
	return slots, nil
}

// CanManageRoom reports whether the user administers the complex that owns the room.
func (s *gormStore) CanManageRoom(ctx context.Context, userID, roomID int64) (bool, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	var n int64
	err = s.db.WithContext(ctx).Model(&model.AdminManages{}).
		Where("user_id = ? AND complex_id = ?", userID, room.ComplexID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func sortTimeslots(slots []model.Timeslot) {
	slices.SortStableFunc(slots, func(a, b model.Timeslot) int {
		if c := cmp.Compare(a.StartTime, b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
