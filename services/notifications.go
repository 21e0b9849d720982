package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
)

// NotificationService persists notifications and publishes them to the
// recipient's Redis channel for live delivery over the event stream.
// Publishing is fire-and-forget: a dead Redis never fails the request.
type NotificationService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewNotificationService(db *gorm.DB, rdb *redis.Client) *NotificationService {
	return &NotificationService{db: db, redis: rdb}
}

// UserChannel is the Redis pub/sub channel for one user's events.
func UserChannel(userID uint) string {
	return fmt.Sprintf("user:%d:events", userID)
}

type NotificationEvent struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	RefType string `json:"refType,omitempty"`
	RefID   uint   `json:"refID,omitempty"`
}

// Notify stores a notification row and publishes the event.
func (ns *NotificationService) Notify(userID uint, event NotificationEvent) {
	notification := models.Notification{
		UserID:  userID,
		Type:    event.Type,
		Title:   event.Title,
		Message: event.Message,
		RefType: event.RefType,
		RefID:   event.RefID,
	}
	if err := ns.db.Create(&notification).Error; err != nil {
		log.Printf("notification persist failed for user %d: %v", userID, err)
		return
	}

	ns.Publish(userID, event)
}

// Publish pushes an event to the user's channel without persisting it.
func (ns *NotificationService) Publish(userID uint, event NotificationEvent) {
	if ns.redis == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("notification encode failed: %v", err)
		return
	}
	if err := ns.redis.Publish(context.Background(), UserChannel(userID), payload).Err(); err != nil {
		log.Printf("notification publish failed for user %d: %v", userID, err)
	}
}
