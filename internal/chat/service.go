// Package chat implements one-to-one conversations between marketplace users.
package chat

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"task-marketplace-api/internal/domain"
	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxMessageLength = 2000
	unknownUser      = "Unknown user"
)

// Summary is a chat as listed for one participant.
type Summary struct {
	models.Chat
	ParticipantID   string     `json:"participantId"`
	ParticipantName string     `json:"participantName"`
	LastMessage     string     `json:"lastMessage"`
	LastMessageTime *time.Time `json:"lastMessageTime"`
	UnreadCount     int64      `json:"unreadCount"`
}

// Service manages chats and messages.
type Service struct {
	store    *store.Store
	profiles *store.ProfileCache
	log      *zap.Logger
	now      func() time.Time
}

// NewService creates a chat service. A nil logger is replaced by a no-op one.
func NewService(st *store.Store, profiles *store.ProfileCache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, profiles: profiles, log: log, now: time.Now}
}

func orderedPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// OpenChat returns the chat between userID and otherID, creating it on first use.
func (s *Service) OpenChat(ctx context.Context, userID, otherID string) (models.Chat, error) {
	otherID = strings.TrimSpace(otherID)
	if otherID == "" {
		return models.Chat{}, domain.Invalid(domain.ReasonInvalidInput, "participant is required")
	}
	if otherID == userID {
		return models.Chat{}, domain.Invalid(domain.ReasonInvalidInput, "you cannot start a chat with yourself")
	}
	if _, err := s.profiles.Get(ctx, otherID); err != nil {
		return models.Chat{}, domain.Wrap("load participant", err)
	}

	u1, u2 := orderedPair(userID, otherID)
	c, err := s.store.FindChat(ctx, u1, u2)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return models.Chat{}, domain.Wrap("find chat", err)
	}

	c = models.Chat{ID: uuid.NewString(), User1ID: u1, User2ID: u2}
	if err := s.store.CreateChat(ctx, &c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// created concurrently by the other participant
			c, err = s.store.FindChat(ctx, u1, u2)
			return c, domain.Wrap("find chat", err)
		}
		return models.Chat{}, domain.Wrap("create chat", err)
	}
	s.log.Debug("chat opened", zap.String("chat_id", c.ID))
	return c, nil
}

// ListChats returns userID's chats, most recently active first.
func (s *Service) ListChats(ctx context.Context, userID string) ([]Summary, error) {
	chats, err := s.store.ListChats(ctx, userID)
	if err != nil {
		return nil, domain.Wrap("list chats", err)
	}
	out := make([]Summary, 0, len(chats))
	for _, c := range chats {
		other := c.Other(userID)
		sum := Summary{
			Chat:            c,
			ParticipantID:   other,
			ParticipantName: s.profiles.Username(ctx, other, unknownUser),
		}
		last, ok, err := s.store.LastMessage(ctx, c.ID)
		if err != nil {
			return nil, domain.Wrap("load last message", err)
		}
		if ok {
			ts := last.Timestamp
			sum.LastMessage = last.Content
			sum.LastMessageTime = &ts
		}
		if sum.UnreadCount, err = s.store.CountUnread(ctx, c.ID, userID); err != nil {
			return nil, domain.Wrap("count unread messages", err)
		}
		out = append(out, sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return activity(out[i]).After(activity(out[j]))
	})
	return out, nil
}

func activity(s Summary) time.Time {
	if s.LastMessageTime != nil {
		return *s.LastMessageTime
	}
	return s.CreatedAt
}

// participantChat loads chatID and checks userID takes part in it.
func (s *Service) participantChat(ctx context.Context, userID, chatID string) (models.Chat, error) {
	c, err := s.store.GetChat(ctx, chatID)
	if err != nil {
		return models.Chat{}, domain.Wrap("load chat", err)
	}
	if !c.Has(userID) {
		return models.Chat{}, domain.Invalid(domain.ReasonNotParty, "you are not a participant of this chat")
	}
	return c, nil
}

// SendMessage posts content from userID to the other participant of chatID.
func (s *Service) SendMessage(ctx context.Context, userID, chatID, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, domain.Invalid(domain.ReasonInvalidInput, "message content is required")
	}
	if len(content) > maxMessageLength {
		return models.Message{}, domain.Invalid(domain.ReasonInvalidInput, "message must be at most %d characters", maxMessageLength)
	}
	c, err := s.participantChat(ctx, userID, chatID)
	if err != nil {
		return models.Message{}, err
	}
	m := models.Message{
		ID:         uuid.NewString(),
		ChatID:     c.ID,
		SenderID:   userID,
		ReceiverID: c.Other(userID),
		Content:    content,
		Timestamp:  s.now().UTC(),
	}
	if err := s.store.CreateMessage(ctx, &m); err != nil {
		return models.Message{}, domain.Wrap("send message", err)
	}
	return m, nil
}

// ListMessages returns the messages of chatID in chronological order and marks the
// ones addressed to userID as read.
func (s *Service) ListMessages(ctx context.Context, userID, chatID string) ([]models.Message, error) {
	c, err := s.participantChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.MarkRead(ctx, c.ID, userID); err != nil {
		return nil, domain.Wrap("mark messages read", err)
	}
	msgs, err := s.store.ListMessages(ctx, c.ID)
	if err != nil {
		return nil, domain.Wrap("list messages", err)
	}
	return msgs, nil
}
