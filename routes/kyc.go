package routes

import (
	"fmt"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
	"github.com/techemperorhousings/emp-housing-backend-sub000/services"
	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
	"github.com/techemperorhousings/emp-housing-backend-sub000/utils"
)

type VerificationInput struct {
	IDType       string `json:"idType" validate:"required,oneof=passport national_id drivers_license"`
	IDNumber     string `json:"idNumber" validate:"required,max=64"`
	IDFrontImage string `json:"idFrontImage" validate:"required"`
	IDBackImage  string `json:"idBackImage"`
	SelfieImage  string `json:"selfieImage" validate:"required"`
}

// SubmitVerification uploads the caller's identity documents and queues
// the submission for review. A pending submission blocks a second one.
func SubmitVerification(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input VerificationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var pending int64
	storage.DB.Model(&models.IdentityVerification{}).
		Where("user_id = ? AND status = ?", userID, "pending").Count(&pending)
	if pending > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "a verification is already pending review", ctx)
		return
	}

	frontUpload, err := storage.UploadBase64Image(input.IDFrontImage, fmt.Sprintf("kyc/%d/front-%d", userID, time.Now().Unix()))
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	selfieUpload, err := storage.UploadBase64Image(input.SelfieImage, fmt.Sprintf("kyc/%d/selfie-%d", userID, time.Now().Unix()))
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	backURL := ""
	if input.IDBackImage != "" {
		if backUpload, err := storage.UploadBase64Image(input.IDBackImage, fmt.Sprintf("kyc/%d/back-%d", userID, time.Now().Unix())); err == nil {
			backURL = backUpload.URL
		}
	}

	verification := models.IdentityVerification{
		UserID:       userID,
		IDType:       input.IDType,
		IDNumber:     input.IDNumber,
		IDFrontImage: frontUpload.URL,
		IDBackImage:  backURL,
		SelfieImage:  selfieUpload.URL,
		Status:       "pending",
	}
	if err := storage.DB.Create(&verification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("verification_status", "pending")

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(verification)
}

func GetMyVerification(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var verification models.IdentityVerification
	result := storage.DB.Where("user_id = ?", userID).
		Order("created_at desc").Limit(1).Find(&verification)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "No verification submitted", ctx)
		return
	}

	ctx.JSON(verification)
}

// ListPendingVerifications is the review queue, gated by REVIEW_KYC.
func ListPendingVerifications(ctx iris.Context) {
	var verifications []models.IdentityVerification
	if err := storage.DB.Preload("User").Where("status = ?", "pending").
		Order("created_at asc").Find(&verifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(verifications)
}

type ReviewVerificationInput struct {
	Approve     bool   `json:"approve"`
	ReviewNotes string `json:"reviewNotes" validate:"max=1000"`
}

// ReviewVerification decides a pending KYC submission, gated by REVIEW_KYC.
func ReviewVerification(ctx iris.Context) {
	reviewerID := ctx.Values().Get("userID").(uint)
	verificationID := parseIDParam(ctx)

	var input ReviewVerificationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var verification models.IdentityVerification
	if err := storage.DB.Preload("User").First(&verification, verificationID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Verification not found", ctx)
		return
	}
	if verification.Status != "pending" {
		utils.CreateError(iris.StatusConflict, "Conflict", "verification was already reviewed", ctx)
		return
	}

	decision := "approved"
	verified := true
	if !input.Approve {
		decision = "rejected"
		verified = false
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       decision,
		"review_notes": input.ReviewNotes,
		"reviewed_by":  reviewerID,
		"reviewed_at":  now,
	}
	if err := storage.DB.Model(&verification).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Model(&models.User{}).Where("id = ?", verification.UserID).
		Updates(map[string]interface{}{
			"verification_status": decision,
			"is_verified":         verified,
		})

	utils.Audit(ctx, "kyc_review", "identity_verification", verificationID, nil, updates)

	notifications := services.NewNotificationService(storage.DB, storage.Redis)
	go notifications.Notify(verification.UserID, services.NotificationEvent{
		Type:    "kyc_reviewed",
		Title:   "Identity Verification " + decision,
		Message: "Your identity verification was " + decision,
		RefType: "kyc",
		RefID:   verification.ID,
	})

	if verification.User != nil {
		mail := services.NewMailService()
		go mail.Send(verification.User.Email, "Identity verification "+decision, "kyc_reviewed", map[string]string{
			"firstName":   verification.User.FirstName,
			"decision":    decision,
			"reviewNotes": input.ReviewNotes,
		})
	}

	storage.DB.First(&verification, verificationID)
	ctx.JSON(verification)
}
