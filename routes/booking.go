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

type CreateBookingInput struct {
	CheckInDate  time.Time `json:"checkInDate" validate:"required"`
	CheckoutDate time.Time `json:"checkoutDate" validate:"required"`
}

func CreateBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	propertyID := parseIDParam(ctx)

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	svc := services.NewBookingService(storage.DB)
	booking, err := svc.Create(userID, services.CreateBookingInput{
		PropertyID:   propertyID,
		CheckInDate:  input.CheckInDate,
		CheckoutDate: input.CheckoutDate,
	})
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	if booking.Property != nil {
		notifications := services.NewNotificationService(storage.DB, storage.Redis)
		go notifications.Notify(booking.Property.OwnerID, services.NotificationEvent{
			Type:  "booking_request",
			Title: "New Booking Request",
			Message: fmt.Sprintf("New booking request for %s from %s to %s",
				booking.Property.Title,
				booking.CheckInDate.Format("Jan 2, 2006"),
				booking.CheckoutDate.Format("Jan 2, 2006")),
			RefType: "booking",
			RefID:   booking.ID,
		})
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

func GetUserBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	if err := storage.DB.Preload("Property").Where("requester_id = ?", userID).
		Order("created_at desc").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}

// GetPropertyBookings lists bookings on a property for its owner.
func GetPropertyBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	propertyID := parseIDParam(ctx)

	var property models.Property
	if err := storage.DB.First(&property, propertyID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}
	if property.OwnerID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var bookings []models.Booking
	if err := storage.DB.Preload("Requester").Where("property_id = ?", propertyID).
		Order("created_at desc").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}

func CancelBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bookingID := parseIDParam(ctx)

	svc := services.NewBookingService(storage.DB)
	booking, err := svc.Cancel(bookingID, userID)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	ctx.JSON(booking)
}

type DecideBookingInput struct {
	Approve         bool   `json:"approve"`
	ResponseMessage string `json:"responseMessage" validate:"required,max=500"`
}

func DecideBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bookingID := parseIDParam(ctx)

	var input DecideBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	isAdmin := services.NewAuthorizationService(storage.DB).
		HoldsAdminGrant(userID, storage.PermDecideBooking)

	svc := services.NewBookingService(storage.DB)
	booking, err := svc.Decide(bookingID, userID, input.Approve, input.ResponseMessage, isAdmin)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	decision := "approved"
	if !input.Approve {
		decision = "rejected"
	}

	notifications := services.NewNotificationService(storage.DB, storage.Redis)
	go notifications.Notify(booking.RequesterID, services.NotificationEvent{
		Type:    "booking_decided",
		Title:   "Booking " + decision,
		Message: fmt.Sprintf("Your booking was %s: %s", decision, input.ResponseMessage),
		RefType: "booking",
		RefID:   booking.ID,
	})

	if booking.Requester != nil && booking.Property != nil {
		mail := services.NewMailService()
		go mail.Send(booking.Requester.Email, "Your booking was "+decision, "booking_decided", map[string]string{
			"firstName":       booking.Requester.FirstName,
			"propertyTitle":   booking.Property.Title,
			"decision":        decision,
			"responseMessage": input.ResponseMessage,
		})
	}

	ctx.JSON(booking)
}
