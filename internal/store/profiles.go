package store

import (
	"context"

	"task-marketplace-api/internal/domain"
	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/realtime"

	"gorm.io/gorm/clause"
)

func profileEvent(kind realtime.ChangeKind, p models.Profile) realtime.ChangeEvent {
	return realtime.ChangeEvent{
		Table:   models.Profile{}.TableName(),
		Kind:    kind,
		ID:      p.ID,
		Row:     p,
		UserIDs: []string{p.ID},
	}
}

// CreateProfile inserts a profile; a taken username yields ErrDuplicate.
func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	if err := s.conn(ctx).Create(p).Error; err != nil {
		return translate(err)
	}
	s.emit(profileEvent(realtime.KindInsert, *p))
	return nil
}

// GetProfile loads a profile by id.
func (s *Store) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	var p models.Profile
	err := s.conn(ctx).Where("id = ?", id).First(&p).Error
	return p, translate(err)
}

// GetProfileByUsername loads a profile by its unique username.
func (s *Store) GetProfileByUsername(ctx context.Context, username string) (models.Profile, error) {
	var p models.Profile
	err := s.conn(ctx).Where("username = ?", username).First(&p).Error
	return p, translate(err)
}

// SetProfileRating overwrites one rating column ("requestor_rating" or "doer_rating").
func (s *Store) SetProfileRating(ctx context.Context, profileID, column string, rating int) error {
	res := s.conn(ctx).Model(&models.Profile{}).Where("id = ?", profileID).Update(column, rating)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	p, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return err
	}
	s.emit(profileEvent(realtime.KindUpdate, p))
	return nil
}

// LockProfile takes a row lock on the profile until the surrounding transaction
// ends, serializing writers that check per-user limits. SQLite has no row locks;
// its single connection already serializes transactions.
func (s *Store) LockProfile(ctx context.Context, id string) error {
	var p models.Profile
	err := s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").Where("id = ?", id).First(&p).Error
	return translate(err)
}
