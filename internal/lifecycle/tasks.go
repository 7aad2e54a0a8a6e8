package lifecycle

import (
	"context"
	"strings"
	"time"

	"task-marketplace-api/internal/domain"
	"task-marketplace-api/internal/events"
	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateTaskInput is the payload of a new task.
type CreateTaskInput struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=4000"`
	Location    string    `json:"location" validate:"max=200"`
	Reward      float64   `json:"reward" validate:"gte=0"`
	Deadline    time.Time `json:"deadline"`
	TaskType    string    `json:"taskType" validate:"omitempty,oneof=normal joint"`
}

// EditTaskInput carries the editable fields of a task; nil fields stay unchanged.
type EditTaskInput struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=4000"`
	Location    *string    `json:"location" validate:"omitempty,max=200"`
	Reward      *float64   `json:"reward" validate:"omitempty,gte=0"`
	Deadline    *time.Time `json:"deadline"`
}

// CreateTask posts a new active task for creatorID. A creator holding the maximum
// number of active tasks is refused with QuotaExceeded.
func (s *Service) CreateTask(ctx context.Context, creatorID string, in CreateTaskInput) (TaskView, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validate.Struct(in); err != nil {
		return TaskView{}, domain.Invalid(domain.ReasonInvalidInput, "%s", validationMessage(err))
	}
	if in.Deadline.IsZero() {
		return TaskView{}, domain.Invalid(domain.ReasonInvalidInput, "deadline is required")
	}
	taskType := models.TaskType(in.TaskType)
	if taskType == "" {
		taskType = models.TypeNormal
	}

	task := models.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Reward:      in.Reward,
		Deadline:    in.Deadline.UTC(),
		TaskType:    taskType,
		Status:      models.StatusActive,
		CreatorID:   creatorID,
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.LockProfile(ctx, creatorID); err != nil {
			return domain.Wrap("lock creator", err)
		}
		active, err := tx.CountActiveTasks(ctx, creatorID)
		if err != nil {
			return domain.Wrap("count active tasks", err)
		}
		if active >= int64(s.maxActive) {
			return domain.Invalid(domain.ReasonQuotaExceeded, "you can only have %d active tasks at a time", s.maxActive)
		}
		return domain.Wrap("create task", tx.CreateTask(ctx, &task))
	})
	if err != nil {
		return TaskView{}, domain.Wrap("create task", err)
	}

	s.log.Info("task created", zap.String("task_id", task.ID), zap.String("creator_id", creatorID))
	s.publish(ctx, events.TaskCreated, task.ID, creatorID)
	return s.view(ctx, task, creatorID), nil
}

// EditTask changes the descriptive fields of an active task. Creator only.
func (s *Service) EditTask(ctx context.Context, userID, taskID string, in EditTaskInput) (TaskView, error) {
	if err := s.validate.Struct(in); err != nil {
		return TaskView{}, domain.Invalid(domain.ReasonInvalidInput, "%s", validationMessage(err))
	}
	patch := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return TaskView{}, domain.Invalid(domain.ReasonInvalidInput, "title is required")
		}
		patch["title"] = title
	}
	if in.Description != nil {
		patch["description"] = *in.Description
	}
	if in.Location != nil {
		patch["location"] = *in.Location
	}
	if in.Reward != nil {
		patch["reward"] = *in.Reward
	}
	if in.Deadline != nil {
		if in.Deadline.IsZero() {
			return TaskView{}, domain.Invalid(domain.ReasonInvalidInput, "deadline is required")
		}
		patch["deadline"] = in.Deadline.UTC()
	}

	var task models.Task
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return domain.Wrap("load task", err)
		}
		if t.CreatorID != userID {
			return domain.Invalid(domain.ReasonNotCreator, "only the task creator can edit this task")
		}
		if len(patch) == 0 {
			task = t
			return nil
		}
		ok, err := tx.UpdateTask(ctx, taskID, map[string]any{"status": models.StatusActive}, patch)
		if err != nil {
			return domain.Wrap("update task", err)
		}
		if !ok {
			return domain.Invalid(domain.ReasonTaskClosed, "completed tasks cannot be edited")
		}
		task, err = tx.GetTask(ctx, taskID)
		return domain.Wrap("reload task", err)
	})
	if err != nil {
		return TaskView{}, domain.Wrap("edit task", err)
	}

	s.publish(ctx, events.TaskUpdated, taskID, userID)
	return s.view(ctx, task, userID), nil
}

// CancelTask closes an active task directly, whatever its verification progress.
// No rating is requested. Creator only.
func (s *Service) CancelTask(ctx context.Context, userID, taskID string) (TaskView, error) {
	var task models.Task
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return domain.Wrap("load task", err)
		}
		if t.CreatorID != userID {
			return domain.Invalid(domain.ReasonNotCreator, "only the task creator can cancel this task")
		}
		ok, err := tx.UpdateTask(ctx, taskID,
			map[string]any{"status": models.StatusActive},
			map[string]any{"status": models.StatusCompleted})
		if err != nil {
			return domain.Wrap("cancel task", err)
		}
		if !ok {
			return domain.Invalid(domain.ReasonTaskClosed, "task is already completed")
		}
		task, err = tx.GetTask(ctx, taskID)
		return domain.Wrap("reload task", err)
	})
	if err != nil {
		return TaskView{}, domain.Wrap("cancel task", err)
	}

	s.log.Info("task cancelled", zap.String("task_id", taskID))
	s.publish(ctx, events.TaskCancelled, taskID, userID)
	return s.view(ctx, task, userID), nil
}

// GetTask returns one task as seen by userID.
func (s *Service) GetTask(ctx context.Context, userID, taskID string) (TaskView, error) {
	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return TaskView{}, domain.Wrap("load task", err)
	}
	v := s.view(ctx, t, userID)
	if _, isParty := RoleOf(t, userID); !isParty {
		if app, err := s.store.FindApplication(ctx, taskID, userID); err == nil {
			v.ApplicationStatus = app.Status
		}
	}
	return v, nil
}

// ListCreatedTasks returns the tasks userID created, newest first.
func (s *Service) ListCreatedTasks(ctx context.Context, userID string) ([]TaskView, error) {
	tasks, err := s.store.ListTasksByCreator(ctx, userID)
	if err != nil {
		return nil, domain.Wrap("list created tasks", err)
	}
	return s.views(ctx, tasks, userID), nil
}

// ListAppliedTasks returns the tasks userID applied for, with the application status.
func (s *Service) ListAppliedTasks(ctx context.Context, userID string) ([]TaskView, error) {
	apps, err := s.store.ListApplicationsByApplicant(ctx, userID)
	if err != nil {
		return nil, domain.Wrap("list applications", err)
	}
	statusByTask := make(map[string]models.ApplicationStatus, len(apps))
	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		statusByTask[a.TaskID] = a.Status
		ids = append(ids, a.TaskID)
	}

	tasks, err := s.store.ListTasksByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Wrap("list applied tasks", err)
	}
	out := s.views(ctx, tasks, userID)
	for i := range out {
		out[i].ApplicationStatus = statusByTask[out[i].ID]
	}
	return out, nil
}
