package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
)

// TourService schedules viewing appointments on FOR_SALE listings.
type TourService struct {
	db *gorm.DB
}

func NewTourService(db *gorm.DB) *TourService {
	return &TourService{db: db}
}

type BookTourInput struct {
	PropertyID    uint
	TourDate      time.Time
	TourTime      string
	Duration      int
	TourType      string
	CustomerNotes string
}

// Book schedules a tour. A customer may not hold two tours on the same
// property at once: any prior tour must have reached a terminal status
// (cancelled, completed, no_show, rejected) first.
func (s *TourService) Book(customerID uint, input BookTourInput) (*models.PropertyTour, error) {
	var property models.Property
	err := s.db.Where("id = ? AND listing_type = ? AND is_published = ?",
		input.PropertyID, models.ListingForSale, true).First(&property).Error
	if err != nil {
		return nil, NotFoundError("property not found or not available for tours")
	}

	if input.TourDate.Before(time.Now()) {
		return nil, ValidationError("tour date must be in the future")
	}

	var active int64
	s.db.Model(&models.PropertyTour{}).
		Where("customer_id = ? AND property_id = ? AND status NOT IN ?",
			customerID, input.PropertyID, models.TourTerminalStatuses).
		Count(&active)
	if active > 0 {
		return nil, ConflictError("you already have a tour scheduled for this property")
	}

	if input.Duration == 0 {
		input.Duration = 60
	}
	if input.TourType == "" {
		input.TourType = "in_person"
	}

	tour := models.PropertyTour{
		PropertyID:    input.PropertyID,
		CustomerID:    customerID,
		TourDate:      input.TourDate,
		TourTime:      input.TourTime,
		Duration:      input.Duration,
		TourType:      input.TourType,
		Status:        models.TourStatusPending,
		CustomerNotes: input.CustomerNotes,
	}
	if err := s.db.Create(&tour).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

// Reschedule moves a tour to a new slot. Pending is the only
// re-schedulable state.
func (s *TourService) Reschedule(tourID, actorID uint, tourDate time.Time, tourTime string) (*models.PropertyTour, error) {
	var tour models.PropertyTour
	if err := s.db.First(&tour, tourID).Error; err != nil {
		return nil, NotFoundError("tour %d not found", tourID)
	}
	if tour.CustomerID != actorID {
		return nil, ForbiddenError("only the customer can reschedule their tour")
	}
	if tour.Status != models.TourStatusPending {
		return nil, ForbiddenTransitionError("tour is %s, only pending tours can be rescheduled", tour.Status)
	}
	if tourDate.Before(time.Now()) {
		return nil, ValidationError("tour date must be in the future")
	}

	res := s.db.Model(&models.PropertyTour{}).
		Where("id = ? AND status = ?", tourID, models.TourStatusPending).
		Updates(map[string]interface{}{"tour_date": tourDate, "tour_time": tourTime})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ForbiddenTransitionError("tour status changed concurrently")
	}

	s.db.First(&tour, tourID)
	return &tour, nil
}

// UpdateStatus is the seller-side decision: confirm, reject, complete,
// mark no-show, or cancel. Ownership is checked against the listing.
func (s *TourService) UpdateStatus(tourID, actorID uint, newStatus, sellerNotes string, actorIsAdmin bool) (*models.PropertyTour, error) {
	var tour models.PropertyTour
	if err := s.db.Preload("Property").First(&tour, tourID).Error; err != nil {
		return nil, NotFoundError("tour %d not found", tourID)
	}
	if !actorIsAdmin && (tour.Property == nil || tour.Property.OwnerID != actorID) {
		return nil, ForbiddenError("only the property owner can update this tour")
	}

	switch newStatus {
	case models.TourStatusConfirmed, models.TourStatusRejected:
		if tour.Status != models.TourStatusPending {
			return nil, ForbiddenTransitionError("tour is %s, cannot move to %s", tour.Status, newStatus)
		}
	case models.TourStatusCompleted, models.TourStatusNoShow, models.TourStatusCancelled:
		if tour.Status != models.TourStatusPending && tour.Status != models.TourStatusConfirmed {
			return nil, ForbiddenTransitionError("tour is %s, cannot move to %s", tour.Status, newStatus)
		}
	default:
		return nil, ValidationError("unknown tour status %q", newStatus)
	}

	res := s.db.Model(&models.PropertyTour{}).
		Where("id = ? AND status = ?", tourID, tour.Status).
		Updates(map[string]interface{}{"status": newStatus, "seller_notes": sellerNotes})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ForbiddenTransitionError("tour status changed concurrently")
	}

	s.db.First(&tour, tourID)
	return &tour, nil
}
