package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a two-party chat thread, usually opened from a listing.
type Conversation struct {
	gorm.Model
	PropertyID *uint `json:"propertyID" gorm:"index"`
	UserOneID  uint  `json:"userOneID" gorm:"index:idx_conversation_pair;not null"`
	UserTwoID  uint  `json:"userTwoID" gorm:"index:idx_conversation_pair;not null"`

	UserOne  *User         `json:"userOne,omitempty" gorm:"foreignKey:UserOneID"`
	UserTwo  *User         `json:"userTwo,omitempty" gorm:"foreignKey:UserTwoID"`
	Messages []ChatMessage `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

type ChatMessage struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	ConversationID uint   `json:"conversationID" gorm:"index;not null"`
	SenderID       uint   `json:"senderID" gorm:"index;not null"`
	Content        string `json:"content" gorm:"type:text;not null"`
	IsRead         bool   `json:"isRead" gorm:"default:false"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`

	CreatedAt time.Time `json:"createdAt"`
}
