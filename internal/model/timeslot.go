package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"laundry-booking-backend/internal/parse"
)

// TimeOfDay is a wall-clock time without a date, in seconds since midnight.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from its components.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

// String renders the short "HH:MM" form shown to users.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Duration returns the offset from midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t) * time.Second
}

// Value stores the time as zero-padded "HH:MM:SS" so that text ordering matches time ordering.
func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second()), nil
}

// Scan implements sql.Scanner.
func (t *TimeOfDay) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*t = NewTimeOfDay(v.Hour(), v.Minute(), v.Second())
		return nil
	case nil:
		*t = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
	h, m, sec, err := parse.Clock(s)
	if err != nil {
		return err
	}
	*t = NewTimeOfDay(h, m, sec)
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	h, m, sec, err := parse.Clock(s)
	if err != nil {
		return err
	}
	*t = NewTimeOfDay(h, m, sec)
	return nil
}

// Timeslot is a recurring daily window that can be booked within a complex.
type Timeslot struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ComplexID int64     `gorm:"index;not null" json:"complexId"`
	StartTime TimeOfDay `gorm:"type:varchar(8);not null" json:"startTime"`
	EndTime   TimeOfDay `gorm:"type:varchar(8);not null" json:"endTime"`

	// Associations
	Complex ApartmentComplex `gorm:"foreignKey:ComplexID;constraint:OnDelete:CASCADE" json:"-"`
}
