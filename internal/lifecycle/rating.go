package lifecycle

import (
	"context"

	"task-marketplace-api/internal/domain"
	"task-marketplace-api/internal/events"
	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/store"

	"go.uber.org/zap"
)

const (
	MinRating = 1
	MaxRating = 5
)

// SubmitRating records userID's rating of the counterpart on a task completed through
// verification. The requestor rates the doer (doer_rating) and the doer rates the
// requestor (requestor_rating). Each party rates a task once; the profile keeps the
// latest value.
func (s *Service) SubmitRating(ctx context.Context, userID, taskID string, rating int) error {
	if rating == 0 {
		return domain.Invalid(domain.ReasonRatingRequired, "please select a rating")
	}
	if rating < MinRating || rating > MaxRating {
		return domain.Invalid(domain.ReasonInvalidRating, "rating must be between %d and %d", MinRating, MaxRating)
	}

	var rated models.Task
	var ratedID string
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return domain.Wrap("load task", err)
		}
		role, ok := RoleOf(t, userID)
		if !ok {
			return domain.Invalid(domain.ReasonNotParty, "only the requestor or the doer can rate this task")
		}
		if t.Status != models.StatusCompleted || !t.BothVerified() {
			return domain.Invalid(domain.ReasonNotRateable, "only tasks completed through verification can be rated")
		}

		ratedColumn, profileColumn := "requestor_has_rated", "doer_rating"
		if role == RoleDoer {
			ratedColumn, profileColumn = "doer_has_rated", "requestor_rating"
		}
		ok, err = tx.UpdateTask(ctx, taskID,
			map[string]any{ratedColumn: false},
			map[string]any{ratedColumn: true})
		if err != nil {
			return domain.Wrap("mark task rated", err)
		}
		if !ok {
			return domain.Invalid(domain.ReasonAlreadyRated, "you have already rated this task")
		}
		ratedID = counterpart(t, role)
		if err := tx.SetProfileRating(ctx, ratedID, profileColumn, rating); err != nil {
			return domain.Wrap("store rating", err)
		}
		rated = t
		return nil
	})
	if err != nil {
		return domain.Wrap("submit rating", err)
	}
	if s.profiles != nil {
		s.profiles.Invalidate(ratedID)
	}

	s.log.Info("rating submitted", zap.String("task_id", rated.ID), zap.Int("rating", rating))
	s.publish(ctx, events.RatingSubmitted, rated.ID, userID)
	return nil
}

// PendingRatings lists the verified-completed tasks userID still has to rate.
func (s *Service) PendingRatings(ctx context.Context, userID string) ([]TaskView, error) {
	tasks, err := s.store.ListUnratedTasks(ctx, userID)
	if err != nil {
		return nil, domain.Wrap("list unrated tasks", err)
	}
	return s.views(ctx, tasks, userID), nil
}
