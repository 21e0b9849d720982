package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
)

// BookingService runs the booking state machine:
// pending -> approved | rejected (owner decision) and
// pending -> cancelled (requester only). All three targets are terminal.
type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

type CreateBookingInput struct {
	PropertyID   uint
	CheckInDate  time.Time
	CheckoutDate time.Time
}

// Create books a stay on a FOR_RENT property. The overlap check is
// scoped to the requesting user and the property: two different users
// may still hold overlapping windows (see DESIGN.md, open question).
func (s *BookingService) Create(requesterID uint, input CreateBookingInput) (*models.Booking, error) {
	var property models.Property
	if err := s.db.First(&property, input.PropertyID).Error; err != nil {
		return nil, NotFoundError("property %d not found", input.PropertyID)
	}
	if property.ListingType != models.ListingForRent {
		return nil, ValidationError("property is not listed for rent")
	}

	if err := ValidateStayDates(input.CheckInDate, input.CheckoutDate); err != nil {
		return nil, err
	}

	// Inclusive-bounds interval intersection against the user's live
	// bookings on this property.
	var overlapping int64
	s.db.Model(&models.Booking{}).
		Where("requester_id = ? AND property_id = ? AND status NOT IN ?",
			requesterID, input.PropertyID,
			[]string{models.BookingStatusCancelled, models.BookingStatusRejected}).
		Where("check_in_date <= ? AND checkout_date >= ?", input.CheckoutDate, input.CheckInDate).
		Count(&overlapping)
	if overlapping > 0 {
		return nil, ConflictError("you already have a booking for this property in the selected dates")
	}

	booking := models.Booking{
		PropertyID:   input.PropertyID,
		RequesterID:  requesterID,
		CheckInDate:  input.CheckInDate,
		CheckoutDate: input.CheckoutDate,
		Status:       models.BookingStatusPending,
	}
	if err := s.db.Create(&booking).Error; err != nil {
		return nil, err
	}

	s.db.Preload("Property").Preload("Requester").First(&booking, booking.ID)
	return &booking, nil
}

// Cancel moves a pending booking to cancelled. Only the requester may
// cancel, and only while the booking is still pending.
func (s *BookingService) Cancel(bookingID, actorID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		return nil, NotFoundError("booking %d not found", bookingID)
	}
	if booking.RequesterID != actorID {
		return nil, ForbiddenError("only the requester can cancel a booking")
	}

	// Compare-and-swap on status so a concurrent approve/reject cannot
	// both pass the pending guard.
	res := s.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, models.BookingStatusPending).
		Update("status", models.BookingStatusCancelled)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ForbiddenTransitionError("booking is %s, only pending bookings can be cancelled", booking.Status)
	}

	s.db.First(&booking, bookingID)
	return &booking, nil
}

// Decide approves or rejects a pending booking. The actor must own the
// property unless actorIsAdmin (the admin route grants that after its
// permission check), and can never be the requester. The response
// message is stored with the status.
func (s *BookingService) Decide(bookingID, actorID uint, approve bool, responseMessage string, actorIsAdmin bool) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Property").First(&booking, bookingID).Error; err != nil {
		return nil, NotFoundError("booking %d not found", bookingID)
	}
	if booking.RequesterID == actorID {
		return nil, ForbiddenError("the requester cannot approve or reject their own booking")
	}
	if !actorIsAdmin && (booking.Property == nil || booking.Property.OwnerID != actorID) {
		return nil, ForbiddenError("only the property owner can decide this booking")
	}

	newStatus := models.BookingStatusApproved
	if !approve {
		newStatus = models.BookingStatusRejected
	}

	res := s.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, models.BookingStatusPending).
		Updates(map[string]interface{}{
			"status":           newStatus,
			"response_message": responseMessage,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ForbiddenTransitionError("booking is %s, only pending bookings can be decided", booking.Status)
	}

	s.db.Preload("Property").Preload("Requester").First(&booking, bookingID)
	return &booking, nil
}
