package store

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"laundry-booking-backend/internal/model"
)

// GetSettings returns the room's complex settings with its timeslots and machines.
func (s *gormStore) GetSettings(ctx context.Context, roomID int64) (*SettingsView, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	var settings model.ComplexSettings
	if err := s.db.WithContext(ctx).Where("complex_id = ?", room.ComplexID).First(&settings).Error; err != nil {
		return nil, notFound(err, "settings")
	}

	slots, err := s.timeslotsForComplex(ctx, room.ComplexID)
	if err != nil {
		return nil, err
	}

	var machines []model.LaundryMachine
	if err := s.db.WithContext(ctx).Where("laundry_room_id = ?", room.ID).Order("id").Find(&machines).Error; err != nil {
		return nil, fmt.Errorf("failed to load machines for room %d: %w", room.ID, err)
	}

	return &SettingsView{
		RoomID:             room.ID,
		RoomName:           room.Name,
		ComplexID:          room.ComplexID,
		MaxBookingsPerUser: settings.MaxBookingsPerUser,
		AllowShowUserInfo:  settings.AllowShowUserInfo,
		Timeslots:          nonNil(slots),
		Machines:           nonNil(machines),
	}, nil
}

// SaveSettings replaces every timeslot of the room's complex and every machine of the
// room with the supplied lists, then upserts the complex settings row. All of it
// happens in one transaction.
//
// Bookings on a removed machine are deleted by cascade. Bookings on a removed
// timeslot keep their row with a NULL timeslot. Both counts are reported.
func (s *gormStore) SaveSettings(ctx context.Context, roomID int64, in SettingsInput) (*SettingsResult, error) {
	if in.MaxBookingsPerUser <= 0 {
		return nil, fmt.Errorf("%w: maxBookingsPerUser must be positive", ErrInvalid)
	}

	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	result := &SettingsResult{
		TimeslotsCreated: len(in.Timeslots),
		MachinesCreated:  len(in.Machines),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		oldMachines := tx.Model(&model.LaundryMachine{}).Select("id").Where("laundry_room_id = ?", room.ID)
		oldSlots := tx.Model(&model.Timeslot{}).Select("id").Where("complex_id = ?", room.ComplexID)

		if err := tx.Model(&model.Booking{}).Where("machine_id IN (?)", oldMachines).
			Count(&result.BookingsRemoved).Error; err != nil {
			return fmt.Errorf("failed to count bookings on machines: %w", err)
		}
		if err := tx.Model(&model.Booking{}).Where("timeslot_id IN (?) AND machine_id NOT IN (?)", oldSlots, oldMachines).
			Count(&result.BookingsDetached).Error; err != nil {
			return fmt.Errorf("failed to count bookings on timeslots: %w", err)
		}

		if err := tx.Where("complex_id = ?", room.ComplexID).Delete(&model.Timeslot{}).Error; err != nil {
			return fmt.Errorf("failed to delete timeslots: %w", err)
		}
		if err := tx.Where("laundry_room_id = ?", room.ID).Delete(&model.LaundryMachine{}).Error; err != nil {
			return fmt.Errorf("failed to delete machines: %w", err)
		}

		if len(in.Timeslots) > 0 {
			slots := make([]model.Timeslot, len(in.Timeslots))
			for i, ts := range in.Timeslots {
				slots[i] = model.Timeslot{ComplexID: room.ComplexID, StartTime: ts.StartTime, EndTime: ts.EndTime}
			}
			if err := tx.Omit("Complex").Create(&slots).Error; err != nil {
				return fmt.Errorf("failed to insert timeslots: %w", err)
			}
		}

		if len(in.Machines) > 0 {
			machines := make([]model.LaundryMachine, len(in.Machines))
			for i, m := range in.Machines {
				machines[i] = model.LaundryMachine{
					Name:          m.Name,
					Type:          m.Type,
					Status:        model.MachineStatusAvailable,
					LaundryRoomID: room.ID,
				}
			}
			if err := tx.Omit("LaundryRoom").Create(&machines).Error; err != nil {
				return fmt.Errorf("failed to insert machines: %w", err)
			}
		}

		settings := model.ComplexSettings{
			ComplexID:          room.ComplexID,
			MaxBookingsPerUser: in.MaxBookingsPerUser,
			AllowShowUserInfo:  in.AllowShowUserInfo,
		}
		return tx.Omit("Complex").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "complex_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"max_bookings_per_user", "allow_show_user_info", "updated_at"}),
		}).Create(&settings).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Saved settings for room %d: %d timeslots, %d machines, %d bookings removed, %d bookings detached",
		room.ID, result.TimeslotsCreated, result.MachinesCreated, result.BookingsRemoved, result.BookingsDetached)
	return result, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
