package models

import (
	"time"
)

// Profile represents a marketplace user.
// Ratings are 1-5, overwritten by the latest submission; 0 means unrated.
type Profile struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Username        string    `json:"username" gorm:"unique;not null"`
	PasswordHash    string    `json:"-" gorm:"column:password_hash;not null"`
	RequestorRating int       `json:"requestorRating" gorm:"column:requestor_rating;not null;default:0"`
	DoerRating      int       `json:"doerRating" gorm:"column:doer_rating;not null;default:0"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Profile Model
func (Profile) TableName() string {
	return "profiles"
}
