package routes

import (
	"time"

	"github.com/kataras/iris/v12"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
	"github.com/techemperorhousings/emp-housing-backend-sub000/services"
	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
	"github.com/techemperorhousings/emp-housing-backend-sub000/utils"
)

type CreateRentalInput struct {
	BookingID     uint      `json:"bookingID" validate:"required"`
	Amount        float32   `json:"amount" validate:"required,gt=0"`
	DepositAmount float32   `json:"depositAmount" validate:"gte=0"`
	StartDate     time.Time `json:"startDate" validate:"required"`
	EndDate       time.Time `json:"endDate" validate:"required"`
}

func CreateRentalAgreement(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateRentalInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	svc := services.NewRentalService(storage.DB)
	agreement, err := svc.CreateFromBooking(userID, services.CreateRentalInput{
		BookingID:     input.BookingID,
		Amount:        input.Amount,
		DepositAmount: input.DepositAmount,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
	})
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	notifications := services.NewNotificationService(storage.DB, storage.Redis)
	go notifications.Notify(agreement.LandlordID, services.NotificationEvent{
		Type:    "rental_created",
		Title:   "New Rental Agreement",
		Message: "A tenant has drafted a rental agreement for your property.",
		RefType: "rental",
		RefID:   agreement.ID,
	})

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(agreement)
}

func GetUserRentalAgreements(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var agreements []models.RentalAgreement
	if err := storage.DB.Preload("Property").
		Where("tenant_id = ? OR landlord_id = ?", userID, userID).
		Order("created_at desc").Find(&agreements).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(agreements)
}

func GetRentalAgreement(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	agreementID := parseIDParam(ctx)

	var agreement models.RentalAgreement
	if err := storage.DB.Preload("Property").Preload("Tenant").Preload("Landlord").Preload("Booking").
		First(&agreement, agreementID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Rental agreement not found", ctx)
		return
	}
	if agreement.TenantID != userID && agreement.LandlordID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	ctx.JSON(agreement)
}

func AcceptRentalTerms(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	agreementID := parseIDParam(ctx)

	svc := services.NewRentalService(storage.DB)
	agreement, err := svc.AcceptTerms(agreementID, userID)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	ctx.JSON(agreement)
}

type UpdateRentalStatusInput struct {
	Status string `json:"status" validate:"required,oneof=active completed terminated"`
}

// UpdateRentalStatus is the admin path; it runs behind MANAGE_RENTALS.
func UpdateRentalStatus(ctx iris.Context) {
	agreementID := parseIDParam(ctx)

	var input UpdateRentalStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var before models.RentalAgreement
	storage.DB.First(&before, agreementID)

	svc := services.NewRentalService(storage.DB)
	agreement, err := svc.UpdateStatus(agreementID, input.Status)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "rental_status_update", "rental_agreement", agreementID, before, agreement)
	ctx.JSON(agreement)
}

type UpdateRentalTermsInput struct {
	Amount        *float32   `json:"amount"`
	DepositAmount *float32   `json:"depositAmount"`
	StartDate     *time.Time `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
}

func UpdateRentalTerms(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	agreementID := parseIDParam(ctx)

	var agreement models.RentalAgreement
	if err := storage.DB.First(&agreement, agreementID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Rental agreement not found", ctx)
		return
	}
	if agreement.LandlordID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateRentalTermsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	svc := services.NewRentalService(storage.DB)
	updated, err := svc.UpdateTerms(agreementID, services.UpdateRentalTermsInput{
		Amount:        input.Amount,
		DepositAmount: input.DepositAmount,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
	})
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	ctx.JSON(updated)
}
