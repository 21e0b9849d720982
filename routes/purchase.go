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

type CreatePurchaseInput struct {
	PropertyID    uint       `json:"property_id" validate:"required"`
	PurchasePrice float64    `json:"purchase_price" validate:"required,gt=0"`
	ClosingDate   *time.Time `json:"closing_date"`
}

func CreatePurchase(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreatePurchaseInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	svc := services.NewPurchaseService(storage.DB)
	purchase, err := svc.Create(userID, services.CreatePurchaseInput{
		PropertyID:    input.PropertyID,
		PurchasePrice: input.PurchasePrice,
		ClosingDate:   input.ClosingDate,
	})
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	if purchase.Property != nil {
		notifications := services.NewNotificationService(storage.DB, storage.Redis)
		go notifications.Notify(purchase.SellerID, services.NotificationEvent{
			Type:    "purchase_opened",
			Title:   "New Purchase",
			Message: fmt.Sprintf("A buyer opened a purchase on %s", purchase.Property.Title),
			RefType: "purchase",
			RefID:   purchase.ID,
		})
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"message": "Purchase created", "purchase": purchase})
}

func GetUserPurchases(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var purchases []models.Purchase
	if err := storage.DB.Preload("Property").
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("created_at desc").Find(&purchases).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"purchases": purchases})
}

type UpdatePurchaseStatusInput struct {
	Status string `json:"status" validate:"required,oneof=paid completed cancelled"`
}

// UpdatePurchaseStatus runs behind MANAGE_PURCHASES. Completion hands
// the property over to the buyer inside the service transaction.
func UpdatePurchaseStatus(ctx iris.Context) {
	purchaseID := parseIDParam(ctx)

	var input UpdatePurchaseStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var before models.Purchase
	storage.DB.First(&before, purchaseID)

	svc := services.NewPurchaseService(storage.DB)
	purchase, err := svc.UpdateStatus(purchaseID, input.Status)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "purchase_status_update", "purchase", purchaseID, before, purchase)

	if input.Status == models.PurchaseStatusCompleted && purchase.Property != nil {
		notifications := services.NewNotificationService(storage.DB, storage.Redis)
		go notifications.Notify(purchase.BuyerID, services.NotificationEvent{
			Type:    "purchase_completed",
			Title:   "Purchase Completed",
			Message: fmt.Sprintf("You are now the owner of %s", purchase.Property.Title),
			RefType: "purchase",
			RefID:   purchase.ID,
		})
	}

	ctx.JSON(iris.Map{"message": "Purchase updated", "purchase": purchase})
}

type CreateOfferInput struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Message string  `json:"message" validate:"max=1000"`
}

func CreateOffer(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	propertyID := parseIDParam(ctx)

	var input CreateOfferInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	svc := services.NewPurchaseService(storage.DB)
	offer, err := svc.CreateOffer(userID, services.CreateOfferInput{
		PropertyID: propertyID,
		Amount:     input.Amount,
		Message:    input.Message,
	})
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	var property models.Property
	if storage.DB.First(&property, propertyID).Error == nil {
		notifications := services.NewNotificationService(storage.DB, storage.Redis)
		go notifications.Notify(property.OwnerID, services.NotificationEvent{
			Type:    "offer_received",
			Title:   "New Offer",
			Message: fmt.Sprintf("You received an offer of %.2f on %s", offer.Amount, property.Title),
			RefType: "offer",
			RefID:   offer.ID,
		})
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"message": "Offer submitted", "offer": offer})
}

// ListPropertyOffers shows offers to the property owner.
func ListPropertyOffers(ctx iris.Context) {
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

	var offers []models.Offer
	if err := storage.DB.Preload("Buyer").Where("property_id = ?", propertyID).
		Order("created_at desc").Find(&offers).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"offers": offers})
}

func GetUserOffers(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var offers []models.Offer
	if err := storage.DB.Where("buyer_id = ?", userID).
		Order("created_at desc").Find(&offers).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"offers": offers})
}

func WithdrawOffer(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	offerID := parseIDParam(ctx)

	svc := services.NewPurchaseService(storage.DB)
	offer, err := svc.WithdrawOffer(offerID, userID)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Offer withdrawn", "offer": offer})
}

type DecideOfferInput struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// DecideOffer is the seller decision; the admin override route reuses it
// behind MANAGE_PURCHASES.
func DecideOffer(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	offerID := parseIDParam(ctx)

	var input DecideOfferInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var offer models.Offer
	if err := storage.DB.Preload("Property").First(&offer, offerID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Offer not found", ctx)
		return
	}

	isAdmin := services.NewAuthorizationService(storage.DB).
		HoldsAdminGrant(userID, storage.PermManagePurchases)
	if !isAdmin && offer.Property.OwnerID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	svc := services.NewPurchaseService(storage.DB)
	decided, err := svc.DecideOffer(offerID, input.Status)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}

	notifications := services.NewNotificationService(storage.DB, storage.Redis)
	go notifications.Notify(decided.BuyerID, services.NotificationEvent{
		Type:    "offer_decided",
		Title:   "Offer " + decided.Status,
		Message: fmt.Sprintf("Your offer of %.2f was %s", decided.Amount, decided.Status),
		RefType: "offer",
		RefID:   decided.ID,
	})

	ctx.JSON(iris.Map{"message": "Offer updated", "offer": decided})
}
