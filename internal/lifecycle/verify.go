package lifecycle

import (
	"context"
	"crypto/subtle"
	"strings"

	"task-marketplace-api/internal/domain"
	"task-marketplace-api/internal/events"
	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/store"
	"task-marketplace-api/internal/verification"

	"go.uber.org/zap"
)

// VerifyResult is the outcome of a code entry. A wrong code is not an error:
// Verified is false and the task is returned unchanged.
type VerifyResult struct {
	Verified        bool     `json:"verified"`
	Completed       bool     `json:"completed"`
	RatingRequested bool     `json:"ratingRequested"`
	Task            TaskView `json:"task"`
}

// RatingRequest is pushed to both parties when a task completes through verification.
type RatingRequest struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
}

// VerifyCode records userID's entry of the counterpart's code. When it matches, the
// caller's flag is set; the entry that makes both flags true completes the task in
// the same transaction. Exactly one caller ever observes Completed.
func (s *Service) VerifyCode(ctx context.Context, userID, taskID, code string) (VerifyResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return VerifyResult{}, domain.Invalid(domain.ReasonInvalidInput, "verification code is required")
	}

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return VerifyResult{}, domain.Wrap("load task", err)
	}
	role, ok := RoleOf(task, userID)
	if !ok {
		return VerifyResult{}, domain.Invalid(domain.ReasonNotParty, "only the requestor or the doer can verify this task")
	}
	if task.Status != models.StatusActive {
		return VerifyResult{}, domain.Invalid(domain.ReasonTaskClosed, "task is already completed")
	}
	if !task.HasDoer() {
		return VerifyResult{}, domain.Invalid(domain.ReasonInvalidState, "task has no approved doer yet")
	}

	key := verification.Key(taskID, userID)
	allowed, err := s.limiter.Allow(ctx, key)
	if err != nil {
		return VerifyResult{}, domain.Wrap("check verification attempts", err)
	}
	if !allowed {
		return VerifyResult{}, domain.Invalid(domain.ReasonTooManyAttempts, "too many wrong codes, try again later")
	}

	expected := expectedCode(task, role)
	if expected == "" || subtle.ConstantTimeCompare([]byte(code), []byte(expected)) != 1 {
		if err := s.limiter.Fail(ctx, key); err != nil {
			s.log.Warn("record failed verification attempt", zap.String("task_id", taskID), zap.Error(err))
		}
		s.log.Info("verification code mismatch", zap.String("task_id", taskID), zap.String("role", string(role)))
		return VerifyResult{Verified: false, Task: s.view(ctx, task, userID)}, nil
	}
	if err := s.limiter.Reset(ctx, key); err != nil {
		s.log.Warn("reset verification attempts", zap.String("task_id", taskID), zap.Error(err))
	}

	if isVerified(task, role) {
		return VerifyResult{Verified: true, Task: s.view(ctx, task, userID)}, nil
	}

	var completed bool
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		ok, err := tx.UpdateTask(ctx, taskID,
			map[string]any{"status": models.StatusActive, "doer_id": *task.DoerID},
			map[string]any{verifiedColumn(role): true})
		if err != nil {
			return domain.Wrap("record verification", err)
		}
		if !ok {
			return domain.Invalid(domain.ReasonTaskClosed, "task is already completed")
		}

		cur, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return domain.Wrap("reload task", err)
		}
		if cur.BothVerified() {
			completed, err = tx.UpdateTask(ctx, taskID,
				map[string]any{"status": models.StatusActive, "is_requestor_verified": true, "is_doer_verified": true},
				map[string]any{"status": models.StatusCompleted})
			if err != nil {
				return domain.Wrap("complete task", err)
			}
		}
		task, err = tx.GetTask(ctx, taskID)
		return domain.Wrap("reload task", err)
	})
	if err != nil {
		return VerifyResult{}, domain.Wrap("verify code", err)
	}

	s.log.Info("verification code accepted",
		zap.String("task_id", taskID),
		zap.String("role", string(role)),
		zap.Bool("completed", completed))
	s.publish(ctx, events.TaskVerified, taskID, userID)

	res := VerifyResult{Verified: true, Completed: completed, Task: s.view(ctx, task, userID)}
	if completed {
		res.RatingRequested = true
		s.publish(ctx, events.TaskCompleted, taskID, userID)
		req := RatingRequest{Type: "rating_requested", TaskID: taskID}
		s.notify(task.CreatorID, req)
		s.notify(counterpart(task, RoleRequestor), req)
	}
	return res, nil
}
