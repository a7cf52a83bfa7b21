package domain

import (
	"errors"
	"time"
)

var ErrInvalidCoordinates = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")

// Role selects which side of the delivery the record belongs to.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "serviceProvider"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleProvider
}

// Record is the last known position shared by an account. Each owner keeps
// exactly one record per role; new shares overwrite it wholesale.
type Record struct {
	OwnerID    string    `bson:"_id" json:"ownerId"`
	Latitude   float64   `bson:"latitude" json:"latitude"`
	Longitude  float64   `bson:"longitude" json:"longitude"`
	Accuracy   float64   `bson:"accuracy,omitempty" json:"accuracy,omitempty"`
	CapturedAt time.Time `bson:"captured_at" json:"capturedAt"`
}

func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// FailureMessage maps browser geolocation error codes to the fixed
// user-facing strings the clients display.
func FailureMessage(code int) string {
	switch code {
	case 1:
		return "Location access was denied. Please enable location services."
	case 2:
		return "Your location could not be determined. Please try again."
	case 3:
		return "Locating you took too long. Please try again."
	default:
		return "Something went wrong while getting your location."
	}
}
