package models

import (
	"time"

	"gorm.io/gorm"
)

// Rental agreement statuses
const (
	RentalStatusPending    = "pending"
	RentalStatusActive     = "active"
	RentalStatusCompleted  = "completed"
	RentalStatusTerminated = "terminated"
)

// RentalAgreement is created from an approved booking. The landlord is
// always derived from the property owner, never supplied by the caller.
type RentalAgreement struct {
	gorm.Model
	PropertyID uint `json:"propertyID" gorm:"index;not null"`
	TenantID   uint `json:"tenantID" gorm:"index;not null"`
	LandlordID uint `json:"landlordID" gorm:"index;not null"`
	BookingID  uint `json:"bookingID" gorm:"index;not null"`

	Amount        float32   `json:"amount"`
	DepositAmount float32   `json:"depositAmount"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`

	TermsAccepted bool   `json:"termsAccepted" gorm:"default:false"`
	Status        string `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Tenant   *User     `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Landlord *User     `json:"landlord,omitempty" gorm:"foreignKey:LandlordID"`
	Booking  *Booking  `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}
