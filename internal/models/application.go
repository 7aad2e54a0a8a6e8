package models

import "time"

// ApplicationStatus represents the review state of an application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application is a user's request to become the doer of a task.
// The composite unique index allows one application per (task, applicant).
type Application struct {
	ID          string            `json:"id" gorm:"primaryKey"`
	TaskID      string            `json:"taskId" gorm:"column:task_id;not null;uniqueIndex:idx_task_applicant"`
	ApplicantID string            `json:"userId" gorm:"column:applicant_id;not null;uniqueIndex:idx_task_applicant"`
	Message     string            `json:"message"`
	Status      ApplicationStatus `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// TableName specifies the table name for Application Model
func (Application) TableName() string {
	return "task_applications"
}
