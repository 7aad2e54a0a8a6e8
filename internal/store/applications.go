package store

import (
	"context"

	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/realtime"
)

func applicationEvent(kind realtime.ChangeKind, a models.Application, creatorID string) realtime.ChangeEvent {
	return realtime.ChangeEvent{
		Table:   models.Application{}.TableName(),
		Kind:    kind,
		ID:      a.ID,
		Row:     a,
		UserIDs: []string{creatorID, a.ApplicantID},
	}
}

// CreateApplication inserts an application. creatorID routes the change event to the
// task owner. A second application for the same (task, applicant) yields ErrDuplicate.
func (s *Store) CreateApplication(ctx context.Context, a *models.Application, creatorID string) error {
	if err := s.conn(ctx).Create(a).Error; err != nil {
		return translate(err)
	}
	s.emit(applicationEvent(realtime.KindInsert, *a, creatorID))
	return nil
}

// GetApplication loads an application by id.
func (s *Store) GetApplication(ctx context.Context, id string) (models.Application, error) {
	var a models.Application
	err := s.conn(ctx).Where("id = ?", id).First(&a).Error
	return a, translate(err)
}

// FindApplication loads the application of applicantID for taskID.
func (s *Store) FindApplication(ctx context.Context, taskID, applicantID string) (models.Application, error) {
	var a models.Application
	err := s.conn(ctx).Where("task_id = ? AND applicant_id = ?", taskID, applicantID).First(&a).Error
	return a, translate(err)
}

// ListApplicationsByTasks returns the applications of the given tasks, newest first.
func (s *Store) ListApplicationsByTasks(ctx context.Context, taskIDs []string) ([]models.Application, error) {
	if len(taskIDs) == 0 {
		return []models.Application{}, nil
	}
	var apps []models.Application
	err := s.conn(ctx).Where("task_id IN ?", taskIDs).Order("created_at desc").Find(&apps).Error
	return apps, translate(err)
}

// ListApplicationsByApplicant returns every application applicantID submitted.
func (s *Store) ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	var apps []models.Application
	err := s.conn(ctx).Where("applicant_id = ?", applicantID).Order("created_at desc").Find(&apps).Error
	return apps, translate(err)
}

// SetApplicationStatus moves an application from one status to another and reports
// whether it was still in the expected status.
func (s *Store) SetApplicationStatus(ctx context.Context, a models.Application, from, to models.ApplicationStatus, creatorID string) (bool, error) {
	res := s.conn(ctx).Model(&models.Application{}).
		Where("id = ? AND status = ?", a.ID, from).
		Update("status", to)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	a.Status = to
	s.emit(applicationEvent(realtime.KindUpdate, a, creatorID))
	return true, nil
}

// RejectSiblings rejects every application of taskID other than keepID and returns
// the rejected rows.
func (s *Store) RejectSiblings(ctx context.Context, taskID, keepID, creatorID string) ([]models.Application, error) {
	var siblings []models.Application
	if err := s.conn(ctx).
		Where("task_id = ? AND id <> ? AND status <> ?", taskID, keepID, models.ApplicationRejected).
		Find(&siblings).Error; err != nil {
		return nil, translate(err)
	}
	if len(siblings) == 0 {
		return siblings, nil
	}
	if err := s.conn(ctx).Model(&models.Application{}).
		Where("task_id = ? AND id <> ?", taskID, keepID).
		Update("status", models.ApplicationRejected).Error; err != nil {
		return nil, translate(err)
	}
	for i := range siblings {
		siblings[i].Status = models.ApplicationRejected
		s.emit(applicationEvent(realtime.KindUpdate, siblings[i], creatorID))
	}
	return siblings, nil
}
