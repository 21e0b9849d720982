package services

import (
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
)

// purchaseTransitions is the explicit status graph for purchases.
var purchaseTransitions = map[string][]string{
	models.PurchaseStatusPending: {models.PurchaseStatusPaid, models.PurchaseStatusCancelled},
	models.PurchaseStatusPaid:    {models.PurchaseStatusCompleted, models.PurchaseStatusCancelled},
}

// offerTransitions is the status graph for the admin/seller decision
// path on offers. Withdrawal is a separate buyer-only action.
var offerTransitions = map[string][]string{
	models.OfferStatusPending: {models.OfferStatusAccepted, models.OfferStatusRejected},
}

func PurchaseAllowedTransition(from, to string) bool {
	return slices.Contains(purchaseTransitions[from], to)
}

func OfferAllowedTransition(from, to string) bool {
	return slices.Contains(offerTransitions[from], to)
}

type PurchaseService struct {
	db *gorm.DB
}

func NewPurchaseService(db *gorm.DB) *PurchaseService {
	return &PurchaseService{db: db}
}

type CreatePurchaseInput struct {
	PropertyID    uint
	PurchasePrice float64
	ClosingDate   *time.Time
	PurchaseDate  *time.Time
}

// Create opens a purchase on a FOR_SALE property. The seller is the
// current property owner; the purchase date defaults to now.
func (s *PurchaseService) Create(buyerID uint, input CreatePurchaseInput) (*models.Purchase, error) {
	var property models.Property
	if err := s.db.First(&property, input.PropertyID).Error; err != nil {
		return nil, NotFoundError("property %d not found", input.PropertyID)
	}
	if property.ListingType != models.ListingForSale {
		return nil, ValidationError("property is not listed for sale")
	}
	if property.OwnerID == buyerID {
		return nil, ValidationError("you cannot purchase your own property")
	}
	if input.PurchasePrice <= 0 {
		return nil, ValidationError("purchase price must be positive")
	}

	purchaseDate := time.Now()
	if input.PurchaseDate != nil {
		purchaseDate = *input.PurchaseDate
	}

	purchase := models.Purchase{
		PropertyID:    input.PropertyID,
		BuyerID:       buyerID,
		SellerID:      property.OwnerID,
		PurchasePrice: input.PurchasePrice,
		PurchaseDate:  purchaseDate,
		ClosingDate:   input.ClosingDate,
		Status:        models.PurchaseStatusPending,
	}
	if err := s.db.Create(&purchase).Error; err != nil {
		return nil, err
	}

	s.db.Preload("Property").Preload("Buyer").Preload("Seller").First(&purchase, purchase.ID)
	return &purchase, nil
}

// UpdateStatus walks the purchase status graph. Completion reassigns the
// property to the buyer and marks it sold inside one transaction with
// the status write, so a reader observes both mutations or neither.
func (s *PurchaseService) UpdateStatus(purchaseID uint, newStatus string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := s.db.First(&purchase, purchaseID).Error; err != nil {
		return nil, NotFoundError("purchase %d not found", purchaseID)
	}
	if !PurchaseAllowedTransition(purchase.Status, newStatus) {
		return nil, ForbiddenTransitionError("purchase cannot move from %s to %s", purchase.Status, newStatus)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Purchase{}).
			Where("id = ? AND status = ?", purchaseID, purchase.Status).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ForbiddenTransitionError("purchase status changed concurrently")
		}

		if newStatus == models.PurchaseStatusCompleted {
			res = tx.Model(&models.Property{}).
				Where("id = ?", purchase.PropertyID).
				Updates(map[string]interface{}{
					"owner_id": purchase.BuyerID,
					"status":   models.PropertyStatusSold,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return NotFoundError("property %d not found", purchase.PropertyID)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.db.Preload("Property").Preload("Buyer").Preload("Seller").First(&purchase, purchaseID)
	return &purchase, nil
}

type CreateOfferInput struct {
	PropertyID uint
	Amount     float64
	Message    string
}

func (s *PurchaseService) CreateOffer(buyerID uint, input CreateOfferInput) (*models.Offer, error) {
	var buyer models.User
	if err := s.db.First(&buyer, buyerID).Error; err != nil {
		return nil, NotFoundError("user %d not found", buyerID)
	}
	var property models.Property
	if err := s.db.First(&property, input.PropertyID).Error; err != nil {
		return nil, NotFoundError("property %d not found", input.PropertyID)
	}
	if property.ListingType != models.ListingForSale {
		return nil, ValidationError("property is not listed for sale")
	}
	if input.Amount <= 0 {
		return nil, ValidationError("offer amount must be positive")
	}

	offer := models.Offer{
		PropertyID: input.PropertyID,
		BuyerID:    buyerID,
		Amount:     input.Amount,
		Message:    input.Message,
		Status:     models.OfferStatusPending,
	}
	if err := s.db.Create(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// WithdrawOffer is only reachable from pending and only by the offer's
// own buyer; every other combination is Forbidden.
func (s *PurchaseService) WithdrawOffer(offerID, actorID uint) (*models.Offer, error) {
	var offer models.Offer
	if err := s.db.First(&offer, offerID).Error; err != nil {
		return nil, NotFoundError("offer %d not found", offerID)
	}
	if offer.BuyerID != actorID {
		return nil, ForbiddenError("only the offer's buyer can withdraw it")
	}
	if offer.Status != models.OfferStatusPending {
		return nil, ForbiddenError("offer is %s, only pending offers can be withdrawn", offer.Status)
	}

	res := s.db.Model(&models.Offer{}).
		Where("id = ? AND status = ?", offerID, models.OfferStatusPending).
		Update("status", models.OfferStatusWithdrawn)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ForbiddenError("offer status changed concurrently")
	}

	s.db.First(&offer, offerID)
	return &offer, nil
}

// DecideOffer is the seller/admin decision path, gated by the offer
// transition table.
func (s *PurchaseService) DecideOffer(offerID uint, newStatus string) (*models.Offer, error) {
	var offer models.Offer
	if err := s.db.First(&offer, offerID).Error; err != nil {
		return nil, NotFoundError("offer %d not found", offerID)
	}
	if !OfferAllowedTransition(offer.Status, newStatus) {
		return nil, ForbiddenTransitionError("offer cannot move from %s to %s", offer.Status, newStatus)
	}

	res := s.db.Model(&models.Offer{}).
		Where("id = ? AND status = ?", offerID, offer.Status).
		Update("status", newStatus)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ForbiddenTransitionError("offer status changed concurrently")
	}

	s.db.First(&offer, offerID)
	return &offer, nil
}
