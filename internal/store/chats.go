package store

import (
	"context"

	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/realtime"
)

// CreateChat inserts a chat; an existing pair yields ErrDuplicate.
func (s *Store) CreateChat(ctx context.Context, c *models.Chat) error {
	if err := s.conn(ctx).Create(c).Error; err != nil {
		return translate(err)
	}
	s.emit(realtime.ChangeEvent{
		Table:   c.TableName(),
		Kind:    realtime.KindInsert,
		ID:      c.ID,
		Row:     *c,
		UserIDs: []string{c.User1ID, c.User2ID},
	})
	return nil
}

// GetChat loads a chat by id.
func (s *Store) GetChat(ctx context.Context, id string) (models.Chat, error) {
	var c models.Chat
	err := s.conn(ctx).Where("id = ?", id).First(&c).Error
	return c, translate(err)
}

// FindChat loads the chat between an ordered pair of users.
func (s *Store) FindChat(ctx context.Context, user1ID, user2ID string) (models.Chat, error) {
	var c models.Chat
	err := s.conn(ctx).Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).First(&c).Error
	return c, translate(err)
}

// ListChats returns the chats userID takes part in, newest first.
func (s *Store) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	var chats []models.Chat
	err := s.conn(ctx).Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at desc").Find(&chats).Error
	return chats, translate(err)
}

// CreateMessage inserts a message.
func (s *Store) CreateMessage(ctx context.Context, m *models.Message) error {
	if err := s.conn(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	s.emit(realtime.ChangeEvent{
		Table:   m.TableName(),
		Kind:    realtime.KindInsert,
		ID:      m.ID,
		Row:     *m,
		UserIDs: []string{m.SenderID, m.ReceiverID},
	})
	return nil
}

// ListMessages returns a chat's messages in chronological order.
func (s *Store) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.conn(ctx).Where("chat_id = ?", chatID).Order("timestamp asc").Find(&msgs).Error
	return msgs, translate(err)
}

// LastMessage returns the newest message of a chat, if any.
func (s *Store) LastMessage(ctx context.Context, chatID string) (models.Message, bool, error) {
	var msgs []models.Message
	if err := s.conn(ctx).Where("chat_id = ?", chatID).Order("timestamp desc").Limit(1).Find(&msgs).Error; err != nil {
		return models.Message{}, false, translate(err)
	}
	if len(msgs) == 0 {
		return models.Message{}, false, nil
	}
	return msgs[0], true, nil
}

// CountUnread counts messages of chatID addressed to receiverID and not read yet.
func (s *Store) CountUnread(ctx context.Context, chatID, receiverID string) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Message{}).
		Where("chat_id = ? AND receiver_id = ? AND read = ?", chatID, receiverID, false).
		Count(&n).Error
	return n, translate(err)
}

// MarkRead marks every message of chatID addressed to receiverID as read.
func (s *Store) MarkRead(ctx context.Context, chatID, receiverID string) (int64, error) {
	res := s.conn(ctx).Model(&models.Message{}).
		Where("chat_id = ? AND receiver_id = ? AND read = ?", chatID, receiverID, false).
		Update("read", true)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	if res.RowsAffected > 0 {
		s.emit(realtime.ChangeEvent{
			Table:   models.Message{}.TableName(),
			Kind:    realtime.KindUpdate,
			ID:      chatID,
			UserIDs: []string{receiverID},
		})
	}
	return res.RowsAffected, nil
}
