package lifecycle

import (
	"context"

	"task-marketplace-api/internal/models"
)

const unknownUser = "Unknown user"

// TaskView is a task as seen by one user. VerificationCode is only filled for the
// parties, and only with the code of the viewer's own role.
type TaskView struct {
	models.Task
	State             State                    `json:"state"`
	CreatorName       string                   `json:"creatorName"`
	CreatorRating     int                      `json:"creatorRating"`
	VerificationCode  string                   `json:"verificationCode,omitempty"`
	ApplicationStatus models.ApplicationStatus `json:"applicationStatus,omitempty"`
}

// ApplicationView is an application enriched for the task creator.
type ApplicationView struct {
	models.Application
	ApplicantName string `json:"applicantName"`
	TaskTitle     string `json:"taskTitle"`
}

// ViewFor builds the view of t for userID.
func ViewFor(t models.Task, userID string) TaskView {
	v := TaskView{Task: t, State: StateOf(t)}
	if role, ok := RoleOf(t, userID); ok && t.Status == models.StatusActive {
		v.VerificationCode = ownCode(t, role)
	}
	return v
}

func (s *Service) view(ctx context.Context, t models.Task, userID string) TaskView {
	v := ViewFor(t, userID)
	v.CreatorName = unknownUser
	if s.profiles != nil {
		if p, err := s.profiles.Get(ctx, t.CreatorID); err == nil {
			v.CreatorName = p.Username
			v.CreatorRating = p.RequestorRating
		}
	}
	return v
}

func (s *Service) views(ctx context.Context, tasks []models.Task, userID string) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, s.view(ctx, t, userID))
	}
	return out
}
