package routes

import (
	"time"

	"github.com/kataras/iris/v12"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
	"github.com/techemperorhousings/emp-housing-backend-sub000/services"
	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
	"github.com/techemperorhousings/emp-housing-backend-sub000/utils"
)

type BookTourInput struct {
	TourDate      time.Time `json:"tour_date" validate:"required"`
	TourTime      string    `json:"tour_time" validate:"required"`
	Duration      int       `json:"duration"`
	TourType      string    `json:"tour_type"`
	CustomerNotes string    `json:"customer_notes"`
}

// BookPropertyTour books a viewing on a FOR_SALE property.
func BookPropertyTour(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	propertyID := parseIDParam(ctx)

	var input BookTourInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	svc := services.NewTourService(storage.DB)
	tour, err := svc.Book(userID, services.BookTourInput{
		PropertyID:    propertyID,
		TourDate:      input.TourDate,
		TourTime:      input.TourTime,
		Duration:      input.Duration,
		TourType:      input.TourType,
		CustomerNotes: input.CustomerNotes,
	})
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"message": "Tour booked successfully",
		"tour":    tour,
	})
}

// GetUserTourBookings gets all tour bookings for the caller
func GetUserTourBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var tours []models.PropertyTour
	if err := storage.DB.Preload("Property").Where("customer_id = ?", userID).
		Order("tour_date desc").Find(&tours).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"tours": tours})
}

// GetPropertyTourBookings gets all tours on a property (owner only)
func GetPropertyTourBookings(ctx iris.Context) {
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

	var tours []models.PropertyTour
	if err := storage.DB.Preload("Customer").Where("property_id = ?", propertyID).
		Order("tour_date asc").Find(&tours).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"tours": tours})
}

type RescheduleTourInput struct {
	TourDate time.Time `json:"tour_date" validate:"required"`
	TourTime string    `json:"tour_time" validate:"required"`
}

func RescheduleTour(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	tourID := parseIDParam(ctx)

	var input RescheduleTourInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	svc := services.NewTourService(storage.DB)
	tour, err := svc.Reschedule(tourID, userID, input.TourDate, input.TourTime)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Tour rescheduled", "tour": tour})
}

type UpdateTourStatusInput struct {
	Status      string `json:"status" validate:"required,oneof=confirmed rejected completed cancelled no_show"`
	SellerNotes string `json:"seller_notes"`
}

func UpdateTourStatus(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	tourID := parseIDParam(ctx)

	var input UpdateTourStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	isAdmin := services.NewAuthorizationService(storage.DB).
		HoldsAdminGrant(userID, storage.PermDecideBooking)

	svc := services.NewTourService(storage.DB)
	tour, err := svc.UpdateStatus(tourID, userID, input.Status, input.SellerNotes, isAdmin)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	notifications := services.NewNotificationService(storage.DB, storage.Redis)
	go notifications.Notify(tour.CustomerID, services.NotificationEvent{
		Type:    "tour_updated",
		Title:   "Tour " + tour.Status,
		Message: "Your tour was marked " + tour.Status,
		RefType: "tour",
		RefID:   tour.ID,
	})

	ctx.JSON(iris.Map{"message": "Tour updated", "tour": tour})
}
