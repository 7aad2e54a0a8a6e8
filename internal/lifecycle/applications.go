package lifecycle

import (
	"context"
	"errors"
	"strings"

	"task-marketplace-api/internal/domain"
	"task-marketplace-api/internal/events"
	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxApplicationMessage = 2000

// ApplyForTask submits a pending application of applicantID for an active task.
// A second application for the same task, whatever the first one's status, is
// refused with DuplicateApplication.
func (s *Service) ApplyForTask(ctx context.Context, applicantID, taskID, message string) (models.Application, error) {
	message = strings.TrimSpace(message)
	if len(message) > maxApplicationMessage {
		return models.Application{}, domain.Invalid(domain.ReasonInvalidInput, "message must be at most %d characters", maxApplicationMessage)
	}

	var app models.Application
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		task, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return domain.Wrap("load task", err)
		}
		if task.Status != models.StatusActive {
			return domain.Invalid(domain.ReasonTaskClosed, "this task is no longer accepting applications")
		}
		if task.CreatorID == applicantID {
			return domain.Invalid(domain.ReasonOwnTask, "you cannot apply for your own task")
		}

		_, err = tx.FindApplication(ctx, taskID, applicantID)
		switch {
		case err == nil:
			return domain.Invalid(domain.ReasonDuplicateApplication, "you have already applied for this task")
		case !errors.Is(err, domain.ErrNotFound):
			return domain.Wrap("check existing application", err)
		}

		app = models.Application{
			ID:          uuid.NewString(),
			TaskID:      taskID,
			ApplicantID: applicantID,
			Message:     message,
			Status:      models.ApplicationPending,
		}
		if err := tx.CreateApplication(ctx, &app, task.CreatorID); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return domain.Invalid(domain.ReasonDuplicateApplication, "you have already applied for this task")
			}
			return domain.Wrap("create application", err)
		}
		return nil
	})
	if err != nil {
		return models.Application{}, domain.Wrap("apply for task", err)
	}

	s.log.Info("application submitted", zap.String("task_id", taskID), zap.String("application_id", app.ID))
	s.publish(ctx, events.ApplicationSubmitted, taskID, applicantID)
	return app, nil
}

// ApproveApplication assigns the applicant as doer. In one transaction it generates
// both verification codes, stores them with the doer and cleared flags, approves the
// application and rejects every sibling. Creator only; the task must still be open.
func (s *Service) ApproveApplication(ctx context.Context, userID, applicationID string) (TaskView, error) {
	var task models.Task
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		app, err := tx.GetApplication(ctx, applicationID)
		if err != nil {
			return domain.Wrap("load application", err)
		}
		t, err := tx.GetTask(ctx, app.TaskID)
		if err != nil {
			return domain.Wrap("load task", err)
		}
		if t.CreatorID != userID {
			return domain.Invalid(domain.ReasonNotCreator, "only the task creator can approve applications")
		}
		if t.Status != models.StatusActive {
			return domain.Invalid(domain.ReasonTaskClosed, "task is already completed")
		}
		if app.Status != models.ApplicationPending {
			return domain.Invalid(domain.ReasonInvalidState, "application is already %s", app.Status)
		}
		if t.HasDoer() {
			return domain.Invalid(domain.ReasonInvalidState, "task already has an approved doer")
		}

		requestorCode, doerCode, err := s.codePair()
		if err != nil {
			return domain.Wrap("generate verification codes", err)
		}
		ok, err := tx.UpdateTask(ctx, t.ID,
			map[string]any{"status": models.StatusActive, "doer_id": nil},
			map[string]any{
				"doer_id":                     app.ApplicantID,
				"requestor_verification_code": requestorCode,
				"doer_verification_code":      doerCode,
				"is_requestor_verified":       false,
				"is_doer_verified":            false,
			})
		if err != nil {
			return domain.Wrap("assign doer", err)
		}
		if !ok {
			return domain.Invalid(domain.ReasonInvalidState, "task already has an approved doer")
		}

		ok, err = tx.SetApplicationStatus(ctx, app, models.ApplicationPending, models.ApplicationApproved, t.CreatorID)
		if err != nil {
			return domain.Wrap("approve application", err)
		}
		if !ok {
			return domain.Invalid(domain.ReasonInvalidState, "application is no longer pending")
		}
		if _, err := tx.RejectSiblings(ctx, t.ID, app.ID, t.CreatorID); err != nil {
			return domain.Wrap("reject other applications", err)
		}

		task, err = tx.GetTask(ctx, t.ID)
		return domain.Wrap("reload task", err)
	})
	if err != nil {
		return TaskView{}, domain.Wrap("approve application", err)
	}

	s.log.Info("application approved",
		zap.String("task_id", task.ID),
		zap.String("application_id", applicationID),
		zap.String("doer_id", *task.DoerID))
	s.publish(ctx, events.ApplicationApproved, task.ID, *task.DoerID)
	return s.view(ctx, task, userID), nil
}

// codePair draws the two verification codes of a task; they never coincide.
func (s *Service) codePair() (string, string, error) {
	requestorCode, err := s.codes()
	if err != nil {
		return "", "", err
	}
	for i := 0; i < 10; i++ {
		doerCode, err := s.codes()
		if err != nil {
			return "", "", err
		}
		if doerCode != requestorCode {
			return requestorCode, doerCode, nil
		}
	}
	return "", "", errors.New("code generator keeps returning the same code")
}

// RejectApplication rejects a pending application. The task is unchanged. Creator only.
func (s *Service) RejectApplication(ctx context.Context, userID, applicationID string) (models.Application, error) {
	var app models.Application
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		a, err := tx.GetApplication(ctx, applicationID)
		if err != nil {
			return domain.Wrap("load application", err)
		}
		t, err := tx.GetTask(ctx, a.TaskID)
		if err != nil {
			return domain.Wrap("load task", err)
		}
		if t.CreatorID != userID {
			return domain.Invalid(domain.ReasonNotCreator, "only the task creator can reject applications")
		}
		ok, err := tx.SetApplicationStatus(ctx, a, models.ApplicationPending, models.ApplicationRejected, t.CreatorID)
		if err != nil {
			return domain.Wrap("reject application", err)
		}
		if !ok {
			return domain.Invalid(domain.ReasonInvalidState, "application is already %s", a.Status)
		}
		a.Status = models.ApplicationRejected
		app = a
		return nil
	})
	if err != nil {
		return models.Application{}, domain.Wrap("reject application", err)
	}

	s.publish(ctx, events.ApplicationRejected, app.TaskID, app.ApplicantID)
	return app, nil
}

// ListApplications returns the applications received on userID's tasks, enriched
// with the applicant's name and the task title.
func (s *Service) ListApplications(ctx context.Context, userID string) ([]ApplicationView, error) {
	tasks, err := s.store.ListTasksByCreator(ctx, userID)
	if err != nil {
		return nil, domain.Wrap("list created tasks", err)
	}
	titles := make(map[string]string, len(tasks))
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
		ids = append(ids, t.ID)
	}

	apps, err := s.store.ListApplicationsByTasks(ctx, ids)
	if err != nil {
		return nil, domain.Wrap("list applications", err)
	}
	out := make([]ApplicationView, 0, len(apps))
	for _, a := range apps {
		name := unknownUser
		if s.profiles != nil {
			name = s.profiles.Username(ctx, a.ApplicantID, unknownUser)
		}
		out = append(out, ApplicationView{
			Application:   a,
			ApplicantName: name,
			TaskTitle:     titles[a.TaskID],
		})
	}
	return out, nil
}
