package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"laundry-booking-backend/internal/model"
)

// CreateUser inserts a user and, when requested, its residence in a complex.
// Username and email collisions return ErrUsernameTaken or ErrEmailTaken and leave the store unchanged.
func (s *gormStore) CreateUser(ctx context.Context, in NewUser) (*model.User, error) {
	user := model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		FullName:     in.FullName,
		UserType:     in.UserType,
		Apartment:    in.Apartment,
		IsAdmin:      in.IsAdmin,
	}
	if user.UserType == "" {
		user.UserType = model.UserTypeDailyUser
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUserUnique(tx, user.Username, user.Email, 0); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return errUserRace
			}
			return fmt.Errorf("failed to create user %q: %w", user.Username, err)
		}
		if in.ComplexID != nil {
			if err := tx.First(&model.ApartmentComplex{}, *in.ComplexID).Error; err != nil {
				return notFound(err, "complex")
			}
			if err := tx.Create(&model.LivesIn{UserID: user.ID, ComplexID: *in.ComplexID}).Error; err != nil {
				return fmt.Errorf("failed to add user %d to complex %d: %w", user.ID, *in.ComplexID, err)
			}
		}
		return nil
	})
	if errors.Is(err, errUserRace) {
		// The failed insert aborted the transaction; ask again outside it which field collided.
		if err := checkUserUnique(s.db.WithContext(ctx), user.Username, user.Email, 0); err != nil {
			return nil, err
		}
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// errUserRace marks an insert rejected by a unique index after checkUserUnique passed.
var errUserRace = errors.New("concurrent user insert")

// checkUserUnique reports which unique field is already held by another user.
func checkUserUnique(tx *gorm.DB, username, email string, exceptID int64) error {
	var n int64
	if username != "" {
		if err := tx.Model(&model.User{}).Where("username = ? AND id <> ?", username, exceptID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrUsernameTaken
		}
	}
	if email != "" {
		if err := tx.Model(&model.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailTaken
		}
	}
	return nil
}

func (s *gormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// GetUserByUsername loads a user with the complexes they live in, ordered by complex id.
func (s *gormStore) GetUserByUsername(ctx context.Context, username string) (*UserWithComplexes, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}

	var complexes []model.ApartmentComplex
	err := s.db.WithContext(ctx).
		Joins("JOIN lives_in ON lives_in.complex_id = apartment_complexes.id").
		Where("lives_in.user_id = ?", user.ID).
		Order("apartment_complexes.id").
		Find(&complexes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load complexes for user %d: %w", user.ID, err)
	}
	return &UserWithComplexes{User: user, Complexes: complexes}, nil
}

func (s *gormStore) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, "user")
		}

		updates := map[string]any{}
		if upd.Email != nil && *upd.Email != user.Email {
			if err := checkUserUnique(tx, "", *upd.Email, id); err != nil {
				return err
			}
			updates["email"] = *upd.Email
		}
		if upd.FullName != nil {
			updates["full_name"] = *upd.FullName
		}
		if upd.UserType != nil {
			updates["user_type"] = *upd.UserType
		}
		if upd.Apartment != nil {
			updates["apartment"] = *upd.Apartment
		}
		if upd.IsAdmin != nil {
			updates["is_admin"] = *upd.IsAdmin
		}
		if upd.PasswordHash != nil {
			updates["password_hash"] = *upd.PasswordHash
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to update user %d: %w", id, err)
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// TouchLastLogin records a successful login.
func (s *gormStore) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("last_login", at).Error
}

// DeleteUser removes a user; memberships, bookings and push subscriptions go with it.
func (s *gormStore) DeleteUser(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	log.Printf("Deleted user %d", id)
	return nil
}

// ListUsersByRoom returns the residents of the complex that owns the room.
func (s *gormStore) ListUsersByRoom(ctx context.Context, roomID int64) ([]model.User, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	var users []model.User
	err = s.db.WithContext(ctx).
		Joins("JOIN lives_in ON lives_in.user_id = users.id").
		Where("lives_in.complex_id = ?", room.ComplexID).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users for room %d: %w", roomID, err)
	}
	return nonNil(users), nil
}
