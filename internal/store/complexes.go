package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"laundry-booking-backend/internal/model"
)

// CreateComplex inserts a complex together with its default settings row.
func (s *gormStore) CreateComplex(ctx context.Context, in NewComplex) (*model.ApartmentComplex, error) {
	c := model.ApartmentComplex{
		Name:    in.Name,
		Street:  in.Street,
		City:    in.City,
		Zipcode: in.Zipcode,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Settings", "LaundryRooms", "Timeslots").Create(&c).Error; err != nil {
			return fmt.Errorf("failed to create complex %q: %w", in.Name, err)
		}
		settings := model.ComplexSettings{
			ComplexID:          c.ID,
			MaxBookingsPerUser: model.DefaultMaxBookingsPerUser,
		}
		if err := tx.Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to create settings for complex %d: %w", c.ID, err)
		}
		c.Settings = &settings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *gormStore) GetComplex(ctx context.Context, id int64) (*model.ApartmentComplex, error) {
	var c model.ApartmentComplex
	if err := s.db.WithContext(ctx).Preload("Settings").First(&c, id).Error; err != nil {
		return nil, notFound(err, "complex")
	}
	return &c, nil
}

// AddResident records that a user lives in a complex.
func (s *gormStore) AddResident(ctx context.Context, userID, complexID int64) error {
	return s.addMembership(ctx, &model.LivesIn{UserID: userID, ComplexID: complexID}, userID, complexID)
}

// AddAdmin grants a user administrative scope over a complex.
func (s *gormStore) AddAdmin(ctx context.Context, userID, complexID int64) error {
	return s.addMembership(ctx, &model.AdminManages{UserID: userID, ComplexID: complexID}, userID, complexID)
}

func (s *gormStore) addMembership(ctx context.Context, row any, userID, complexID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.User{}, userID).Error; err != nil {
			return notFound(err, "user")
		}
		if err := tx.First(&model.ApartmentComplex{}, complexID).Error; err != nil {
			return notFound(err, "complex")
		}
		if err := tx.Create(row).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyMember
			}
			return fmt.Errorf("failed to add user %d to complex %d: %w", userID, complexID, err)
		}
		return nil
	})
}
