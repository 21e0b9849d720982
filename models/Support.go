package models

import (
	"time"

	"gorm.io/gorm"
)

// Support ticket statuses
const (
	TicketStatusOpen     = "open"
	TicketStatusPending  = "pending"
	TicketStatusResolved = "resolved"
	TicketStatusClosed   = "closed"
)

type SupportTicket struct {
	gorm.Model
	RequesterID uint   `json:"requesterID" gorm:"index;not null"`
	Subject     string `json:"subject" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"size:50"` // booking, payment, listing, account, other
	Priority    string `json:"priority" gorm:"size:20;default:'normal'"`
	Status      string `json:"status" gorm:"type:varchar(20);default:'open';index"`

	AssigneeID *uint `json:"assigneeID" gorm:"index"`

	Requester *User         `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Assignee  *User         `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`
	Replies   []TicketReply `json:"replies,omitempty" gorm:"foreignKey:TicketID"`
}

type TicketReply struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	TicketID uint   `json:"ticketID" gorm:"index;not null"`
	AuthorID uint   `json:"authorID" gorm:"index;not null"`
	Body     string `json:"body" gorm:"type:text;not null"`
	IsStaff  bool   `json:"isStaff" gorm:"default:false"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`

	CreatedAt time.Time `json:"createdAt"`
}
