package models

import (
	"time"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	StatusActive    TaskStatus = "active"
	StatusCompleted TaskStatus = "completed"
)

// TaskType represents the type of a task (normal, joint)
type TaskType string

const (
	TypeNormal TaskType = "normal"
	// TypeJoint is stored but has no collaboration behavior yet.
	TypeJoint TaskType = "joint"
)

// Task represents a task posted on the marketplace.
//
// DoerID, both verification codes and both verified flags are written together when an
// application is approved. Codes are never serialized directly; callers expose the code
// belonging to the viewer's own role.
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Reward      float64    `json:"reward" gorm:"not null;default:0"`
	Deadline    time.Time  `json:"deadline"`
	TaskType    TaskType   `json:"taskType" gorm:"column:task_type;not null;default:'normal'"`
	Status      TaskStatus `json:"status" gorm:"not null;default:'active';index"`
	CreatorID   string     `json:"creatorId" gorm:"column:creator_id;not null;index"`
	DoerID      *string    `json:"doerId" gorm:"column:doer_id;index"`

	RequestorVerificationCode *string `json:"-" gorm:"column:requestor_verification_code"`
	DoerVerificationCode      *string `json:"-" gorm:"column:doer_verification_code"`
	IsRequestorVerified       bool    `json:"isRequestorVerified" gorm:"column:is_requestor_verified;not null;default:false"`
	IsDoerVerified            bool    `json:"isDoerVerified" gorm:"column:is_doer_verified;not null;default:false"`

	RequestorHasRated bool `json:"requestorHasRated" gorm:"column:requestor_has_rated;not null;default:false"`
	DoerHasRated      bool `json:"doerHasRated" gorm:"column:doer_has_rated;not null;default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// HasDoer reports whether an application has been approved for the task.
func (t Task) HasDoer() bool {
	return t.DoerID != nil && *t.DoerID != ""
}

// IsDoer reports whether userID is the approved doer.
func (t Task) IsDoer(userID string) bool {
	return t.HasDoer() && *t.DoerID == userID
}

// BothVerified reports whether both parties confirmed completion.
func (t Task) BothVerified() bool {
	return t.IsRequestorVerified && t.IsDoerVerified
}
