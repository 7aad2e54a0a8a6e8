package models

import "time"

// Chat is a conversation between two users. User1ID sorts before User2ID.
type Chat struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	User1ID   string    `json:"user1Id" gorm:"column:user1_id;not null;uniqueIndex:idx_chat_pair"`
	User2ID   string    `json:"user2Id" gorm:"column:user2_id;not null;uniqueIndex:idx_chat_pair;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for Chat Model
func (Chat) TableName() string {
	return "chats"
}

// Other returns the participant that is not userID.
func (c Chat) Other(userID string) string {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// Has reports whether userID takes part in the chat.
func (c Chat) Has(userID string) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// Message is a single chat message.
type Message struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	ChatID     string    `json:"chatId" gorm:"column:chat_id;not null;index"`
	SenderID   string    `json:"senderId" gorm:"column:sender_id;not null"`
	ReceiverID string    `json:"receiverId" gorm:"column:receiver_id;not null;index"`
	Content    string    `json:"content" gorm:"not null"`
	Timestamp  time.Time `json:"timestamp" gorm:"not null;index"`
	Read       bool      `json:"read" gorm:"not null;default:false"`
}

// TableName specifies the table name for Message Model
func (Message) TableName() string {
	return "messages"
}
