package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type InterestedIn string

const (
	InterestedInMale   InterestedIn = "Male"
	InterestedInFemale InterestedIn = "Female"
	InterestedInBoth   InterestedIn = "Both"
)

func (i InterestedIn) IsValid() bool {
	switch i {
	case InterestedInMale, InterestedInFemale, InterestedInBoth:
		return true
	}
	return false
}

// Genders returns the candidate genders a user with this preference is shown.
// Unknown or empty preferences yield no genders, and therefore no candidates.
func (i InterestedIn) Genders() []Gender {
	switch i {
	case InterestedInMale:
		return []Gender{GenderMale}
	case InterestedInFemale:
		return []Gender{GenderFemale}
	case InterestedInBoth:
		return []Gender{GenderMale, GenderFemale, GenderOther}
	}
	return nil
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBanned   UserStatus = "banned"
)

type User struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Email          string          `json:"email" gorm:"uniqueIndex;not null"`
	Username       string          `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash   string          `json:"-" gorm:"not null"`
	Name           string          `json:"name"`
	DateOfBirth    *datatypes.Date `json:"dateOfBirth"`
	Gender         Gender          `json:"gender" gorm:"index"`
	InterestedIn   InterestedIn    `json:"interestedIn"`
	Bio            string          `json:"bio"`
	ProfilePicture string          `json:"profilePicture"`
	Affiliation    string          `json:"affiliation"`
	SwipeLimit     int             `json:"swipeLimit" gorm:"not null;default:0"`
	SpinLimit      int             `json:"spinLimit" gorm:"not null;default:0"`
	LastLogin      *time.Time      `json:"lastLogin"`
	Status         UserStatus      `json:"status" gorm:"not null;default:'active'"`
	Verified       bool            `json:"verified" gorm:"not null;default:false"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}

// HasPicture reports whether the user uploaded a profile picture.
func (u *User) HasPicture() bool {
	return u.ProfilePicture != ""
}

// UserSummary is the public projection of another user shown in feeds,
// match lists and chat lists.
type UserSummary struct {
	ID             uuid.UUID       `json:"id"`
	Username       string          `json:"username"`
	Name           string          `json:"name"`
	DateOfBirth    *datatypes.Date `json:"dateOfBirth,omitempty"`
	Gender         Gender          `json:"gender"`
	Bio            string          `json:"bio"`
	ProfilePicture string          `json:"profilePicture"`
	Affiliation    string          `json:"affiliation"`
	Verified       bool            `json:"verified"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		Name:           u.Name,
		DateOfBirth:    u.DateOfBirth,
		Gender:         u.Gender,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		Affiliation:    u.Affiliation,
		Verified:       u.Verified,
	}
}
