package routes

import (
	"time"

	"github.com/kataras/iris/v12"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
	"github.com/techemperorhousings/emp-housing-backend-sub000/utils"
)

func ListNotifications(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var notifications []models.Notification
	if err := storage.DB.Where("user_id = ?", userID).
		Order("created_at desc").Limit(100).Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(notifications)
}

func MarkNotificationRead(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	notificationID := parseIDParam(ctx)

	now := time.Now()
	res := storage.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func MarkAllNotificationsRead(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	now := time.Now()
	if err := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}
