package routes

import (
	"time"

	"github.com/kataras/iris/v12"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
	"github.com/techemperorhousings/emp-housing-backend-sub000/services"
	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
	"github.com/techemperorhousings/emp-housing-backend-sub000/utils"
)

type OpenConversationInput struct {
	RecipientID uint  `json:"recipientID" validate:"required"`
	PropertyID  *uint `json:"propertyID"`
}

// OpenConversation finds or creates the thread between the caller and
// the recipient.
func OpenConversation(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input OpenConversationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.RecipientID == userID {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "cannot open a conversation with yourself", ctx)
		return
	}

	var recipient models.User
	if err := storage.DB.First(&recipient, input.RecipientID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Recipient not found", ctx)
		return
	}

	var conversation models.Conversation
	result := storage.DB.Where(
		"(user_one_id = ? AND user_two_id = ?) OR (user_one_id = ? AND user_two_id = ?)",
		userID, input.RecipientID, input.RecipientID, userID,
	).Limit(1).Find(&conversation)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if result.RowsAffected == 0 {
		conversation = models.Conversation{
			UserOneID:  userID,
			UserTwoID:  input.RecipientID,
			PropertyID: input.PropertyID,
		}
		if err := storage.DB.Create(&conversation).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	storage.DB.Preload("UserOne").Preload("UserTwo").First(&conversation, conversation.ID)
	ctx.JSON(conversation)
}

func ListConversations(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var conversations []models.Conversation
	if err := storage.DB.Preload("UserOne").Preload("UserTwo").
		Where("user_one_id = ? OR user_two_id = ?", userID, userID).
		Order("updated_at desc").Find(&conversations).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(conversations)
}

// ListMessages returns the last 100 messages of a conversation and
// marks the peer's messages read.
func ListMessages(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	conversationID := parseIDParam(ctx)

	conversation := conversationForUser(conversationID, userID, ctx)
	if conversation == nil {
		return
	}

	var messages []models.ChatMessage
	if err := storage.DB.Preload("Sender").Where("conversation_id = ?", conversationID).
		Order("created_at desc").Limit(100).Find(&messages).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Model(&models.ChatMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, userID, false).
		Update("is_read", true)

	ctx.JSON(messages)
}

type SendMessageInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func SendMessage(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	conversationID := parseIDParam(ctx)

	conversation := conversationForUser(conversationID, userID, ctx)
	if conversation == nil {
		return
	}

	var input SendMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	message := models.ChatMessage{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        input.Content,
	}
	if err := storage.DB.Create(&message).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Model(conversation).Update("updated_at", time.Now())

	recipientID := conversation.UserOneID
	if recipientID == userID {
		recipientID = conversation.UserTwoID
	}

	// Live event only; chat history is its own storage
	notifications := services.NewNotificationService(storage.DB, storage.Redis)
	go notifications.Publish(recipientID, services.NotificationEvent{
		Type:    "chat_message",
		Title:   "New Message",
		Message: input.Content,
		RefType: "conversation",
		RefID:   conversationID,
	})

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(message)
}

func conversationForUser(conversationID, userID uint, ctx iris.Context) *models.Conversation {
	var conversation models.Conversation
	if err := storage.DB.First(&conversation, conversationID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Conversation not found", ctx)
		return nil
	}
	if conversation.UserOneID != userID && conversation.UserTwoID != userID {
		utils.CreateForbidden(ctx)
		return nil
	}
	return &conversation
}
