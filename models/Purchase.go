package models

import (
	"time"

	"gorm.io/gorm"
)

// Purchase statuses
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusPaid      = "paid"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusCancelled = "cancelled"
)

// Offer statuses
const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusWithdrawn = "withdrawn"
)

// Purchase tracks a sale of a FOR_SALE property. Completing a purchase
// reassigns the property to the buyer and marks it sold in the same
// transaction.
type Purchase struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	PropertyID uint `json:"property_id" gorm:"index;not null"`
	BuyerID    uint `json:"buyer_id" gorm:"index;not null"`
	SellerID   uint `json:"seller_id" gorm:"index;not null"`

	PurchasePrice float64    `json:"purchase_price" gorm:"not null"`
	PurchaseDate  time.Time  `json:"purchase_date"`
	ClosingDate   *time.Time `json:"closing_date"`

	Status string `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Buyer    User      `json:"buyer" gorm:"foreignKey:BuyerID"`
	Seller   User      `json:"seller" gorm:"foreignKey:SellerID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// Offer is a purchase offer on a FOR_SALE property. Withdrawal is only
// reachable from pending and only by the offer's own buyer.
type Offer struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	PropertyID uint    `json:"property_id" gorm:"index;not null"`
	BuyerID    uint    `json:"buyer_id" gorm:"index;not null"`
	Amount     float64 `json:"amount" gorm:"not null"`
	Message    string  `json:"message"`
	Status     string  `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Buyer    User     `json:"buyer" gorm:"foreignKey:BuyerID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
