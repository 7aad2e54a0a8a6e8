package store

import (
	"context"

	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/realtime"
)

func taskParties(t models.Task) []string {
	ids := []string{t.CreatorID}
	if t.HasDoer() {
		ids = append(ids, *t.DoerID)
	}
	return ids
}

func taskEvent(kind realtime.ChangeKind, t models.Task) realtime.ChangeEvent {
	return realtime.ChangeEvent{
		Table:   models.Task{}.TableName(),
		Kind:    kind,
		ID:      t.ID,
		Row:     t,
		UserIDs: taskParties(t),
	}
}

// CreateTask inserts a task.
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	if err := s.conn(ctx).Create(t).Error; err != nil {
		return translate(err)
	}
	s.emit(taskEvent(realtime.KindInsert, *t))
	return nil
}

// GetTask loads a task by id.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	err := s.conn(ctx).Where("id = ?", id).First(&t).Error
	return t, translate(err)
}

// CountActiveTasks counts the creator's tasks still in status active.
func (s *Store) CountActiveTasks(ctx context.Context, creatorID string) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Task{}).
		Where("creator_id = ? AND status = ?", creatorID, models.StatusActive).
		Count(&n).Error
	return n, translate(err)
}

// ListTasksByCreator returns the creator's tasks, newest first.
func (s *Store) ListTasksByCreator(ctx context.Context, creatorID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.conn(ctx).Where("creator_id = ?", creatorID).Order("created_at desc").Find(&tasks).Error
	return tasks, translate(err)
}

// ListTasksByIDs returns the given tasks, newest first.
func (s *Store) ListTasksByIDs(ctx context.Context, ids []string) ([]models.Task, error) {
	if len(ids) == 0 {
		return []models.Task{}, nil
	}
	var tasks []models.Task
	err := s.conn(ctx).Where("id IN ?", ids).Order("created_at desc").Find(&tasks).Error
	return tasks, translate(err)
}

// ListUnratedTasks returns verified-completed tasks userID has not rated yet.
func (s *Store) ListUnratedTasks(ctx context.Context, userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.conn(ctx).
		Where("status = ? AND is_requestor_verified = ? AND is_doer_verified = ?", models.StatusCompleted, true, true).
		Where(s.db.
			Where("creator_id = ? AND requestor_has_rated = ?", userID, false).
			Or("doer_id = ? AND doer_has_rated = ?", userID, false)).
		Order("updated_at desc").
		Find(&tasks).Error
	return tasks, translate(err)
}

// UpdateTask applies patch to the task when every column in guard still holds its
// expected value (a nil guard value means IS NULL). It reports whether a row changed
// and publishes the updated row.
func (s *Store) UpdateTask(ctx context.Context, id string, guard, patch map[string]any) (bool, error) {
	q := s.conn(ctx).Model(&models.Task{}).Where("id = ?", id)
	if len(guard) > 0 {
		q = q.Where(guard)
	}
	res := q.Updates(patch)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return true, err
	}
	s.emit(taskEvent(realtime.KindUpdate, t))
	return true, nil
}
