package models

import (
	"time"

	"gorm.io/gorm"
)

// Tour statuses. The terminal set gates re-booking: a customer may not
// hold a second tour on a property until the prior one reached one of
// cancelled, completed, no_show or rejected.
const (
	TourStatusPending   = "pending"
	TourStatusConfirmed = "confirmed"
	TourStatusCompleted = "completed"
	TourStatusCancelled = "cancelled"
	TourStatusNoShow    = "no_show"
	TourStatusRejected  = "rejected"
)

// PropertyTour is a viewing appointment on a FOR_SALE listing.
type PropertyTour struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	PropertyID uint `json:"property_id" gorm:"index;not null"`
	CustomerID uint `json:"customer_id" gorm:"index;not null"`

	TourDate time.Time `json:"tour_date" gorm:"not null"`
	TourTime string    `json:"tour_time"` // "09:00", "14:30", etc.
	Duration int       `json:"duration"`  // minutes
	TourType string    `json:"tour_type"` // in_person, virtual, video_call

	Status string `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	CustomerNotes string `json:"customer_notes"`
	SellerNotes   string `json:"seller_notes"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Customer User      `json:"customer" gorm:"foreignKey:CustomerID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// TourTerminalStatuses lists the statuses that free a customer to book
// another tour on the same property.
var TourTerminalStatuses = []string{
	TourStatusCancelled,
	TourStatusCompleted,
	TourStatusNoShow,
	TourStatusRejected,
}
