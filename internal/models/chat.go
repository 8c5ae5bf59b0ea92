package models

import "time"

// Chat is a conversation between exactly two users
type Chat struct {
	ID        int64     `json:"id"`
	User1ID   int64     `json:"user1_id"`
	User2ID   int64     `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var ChatSchema = Schema{
	Entity: "chat",
	Fields: []Field{
		{Name: "user1_id", Kind: Int, Required: true},
		{Name: "user2_id", Kind: Int, Required: true},
	},
}

func NewChat(fields map[string]any) (*Chat, error) {
	return construct[Chat](ChatSchema, fields)
}

func (c Chat) ToMap() map[string]any { return toMap(c) }

// HasParticipant reports whether userID is one of the two chat members
func (c Chat) HasParticipant(userID int64) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// ChatMessage is one message of a chat, ordered by SentAt
type ChatMessage struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sent_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var ChatMessageSchema = Schema{
	Entity: "chat_message",
	Fields: []Field{
		{Name: "chat_id", Kind: Int, Required: true},
		{Name: "sender_id", Kind: Int, Required: true},
		{Name: "content", Kind: String, Required: true},
		{Name: "sent_at", Kind: Time, Now: true},
	},
}

func NewChatMessage(fields map[string]any) (*ChatMessage, error) {
	return construct[ChatMessage](ChatMessageSchema, fields)
}

func (m ChatMessage) ToMap() map[string]any { return toMap(m) }
