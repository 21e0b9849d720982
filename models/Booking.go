package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking statuses
const (
	BookingStatusPending   = "pending"
	BookingStatusApproved  = "approved"
	BookingStatusRejected  = "rejected"
	BookingStatusCancelled = "cancelled"
)

// Booking is a rental booking request against a FOR_RENT property.
// Approved bookings may later back a RentalAgreement.
type Booking struct {
	gorm.Model
	PropertyID      uint      `json:"propertyID" gorm:"index;not null"`
	RequesterID     uint      `json:"requesterID" gorm:"index;not null"`
	CheckInDate     time.Time `json:"checkInDate"`
	CheckoutDate    time.Time `json:"checkoutDate"`
	Status          string    `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ResponseMessage string    `json:"responseMessage"`

	Property  *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Requester *User     `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
}
