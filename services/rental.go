package services

import (
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
)

// rentalTransitions is the explicit status graph for rental agreements.
// The admin update path used to be an unconditional overwrite; it now
// has to follow one of these edges.
var rentalTransitions = map[string][]string{
	models.RentalStatusPending: {models.RentalStatusActive, models.RentalStatusTerminated},
	models.RentalStatusActive:  {models.RentalStatusCompleted, models.RentalStatusTerminated},
}

// RentalAllowedTransition reports whether from -> to is a legal rental
// agreement status change.
func RentalAllowedTransition(from, to string) bool {
	return slices.Contains(rentalTransitions[from], to)
}

type RentalService struct {
	db *gorm.DB
}

func NewRentalService(db *gorm.DB) *RentalService {
	return &RentalService{db: db}
}

type CreateRentalInput struct {
	BookingID     uint
	Amount        float32
	DepositAmount float32
	StartDate     time.Time
	EndDate       time.Time
}

// CreateFromBooking opens an agreement backed by an approved booking.
// The landlord is resolved from the property owner, never the caller.
func (s *RentalService) CreateFromBooking(tenantID uint, input CreateRentalInput) (*models.RentalAgreement, error) {
	var booking models.Booking
	if err := s.db.Preload("Property").First(&booking, input.BookingID).Error; err != nil {
		return nil, NotFoundError("booking %d not found", input.BookingID)
	}
	if booking.Status != models.BookingStatusApproved {
		return nil, ConflictError("booking is %s, only approved bookings can back a rental agreement", booking.Status)
	}
	if booking.RequesterID != tenantID {
		return nil, ForbiddenError("only the booking requester can create the rental agreement")
	}
	if booking.Property == nil || booking.Property.ListingType != models.ListingForRent {
		return nil, ValidationError("property is not listed for rent")
	}

	if err := ValidateStayDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	agreement := models.RentalAgreement{
		PropertyID:    booking.PropertyID,
		TenantID:      tenantID,
		LandlordID:    booking.Property.OwnerID,
		BookingID:     booking.ID,
		Amount:        input.Amount,
		DepositAmount: input.DepositAmount,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Status:        models.RentalStatusPending,
	}
	if err := s.db.Create(&agreement).Error; err != nil {
		return nil, err
	}

	s.db.Preload("Property").Preload("Tenant").Preload("Landlord").First(&agreement, agreement.ID)
	return &agreement, nil
}

// AcceptTerms flips TermsAccepted. Idempotent, no status precondition.
func (s *RentalService) AcceptTerms(agreementID, actorID uint) (*models.RentalAgreement, error) {
	var agreement models.RentalAgreement
	if err := s.db.First(&agreement, agreementID).Error; err != nil {
		return nil, NotFoundError("rental agreement %d not found", agreementID)
	}
	if agreement.TenantID != actorID {
		return nil, ForbiddenError("only the tenant can accept the terms")
	}
	if !agreement.TermsAccepted {
		if err := s.db.Model(&agreement).Update("terms_accepted", true).Error; err != nil {
			return nil, err
		}
		agreement.TermsAccepted = true
	}
	return &agreement, nil
}

// UpdateStatus applies a status change through the transition table with
// a compare-and-swap on the previous status.
func (s *RentalService) UpdateStatus(agreementID uint, newStatus string) (*models.RentalAgreement, error) {
	var agreement models.RentalAgreement
	if err := s.db.First(&agreement, agreementID).Error; err != nil {
		return nil, NotFoundError("rental agreement %d not found", agreementID)
	}
	if !RentalAllowedTransition(agreement.Status, newStatus) {
		return nil, ForbiddenTransitionError("rental agreement cannot move from %s to %s", agreement.Status, newStatus)
	}

	res := s.db.Model(&models.RentalAgreement{}).
		Where("id = ? AND status = ?", agreementID, agreement.Status).
		Update("status", newStatus)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ForbiddenTransitionError("rental agreement status changed concurrently")
	}

	s.db.First(&agreement, agreementID)
	return &agreement, nil
}

type UpdateRentalTermsInput struct {
	Amount        *float32
	DepositAmount *float32
	StartDate     *time.Time
	EndDate       *time.Time
}

// UpdateTerms partially updates amounts and dates. When both dates are
// supplied they run through the shared date guard; a single date leaves
// the stored pair untouched.
func (s *RentalService) UpdateTerms(agreementID uint, input UpdateRentalTermsInput) (*models.RentalAgreement, error) {
	var agreement models.RentalAgreement
	if err := s.db.First(&agreement, agreementID).Error; err != nil {
		return nil, NotFoundError("rental agreement %d not found", agreementID)
	}

	updates := map[string]interface{}{}
	if input.Amount != nil {
		if *input.Amount < 0 {
			return nil, ValidationError("amount must not be negative")
		}
		updates["amount"] = *input.Amount
	}
	if input.DepositAmount != nil {
		if *input.DepositAmount < 0 {
			return nil, ValidationError("deposit amount must not be negative")
		}
		updates["deposit_amount"] = *input.DepositAmount
	}
	if input.StartDate != nil && input.EndDate != nil {
		if err := ValidateStayDates(*input.StartDate, *input.EndDate); err != nil {
			return nil, err
		}
		updates["start_date"] = *input.StartDate
		updates["end_date"] = *input.EndDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(&agreement).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	s.db.First(&agreement, agreementID)
	return &agreement, nil
}
