package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Listing types
const (
	ListingForRent = "FOR_RENT"
	ListingForSale = "FOR_SALE"
)

// Property statuses
const (
	PropertyStatusPending  = "pending"
	PropertyStatusApproved = "approved"
	PropertyStatusRejected = "rejected"
	PropertyStatusSold     = "sold"
)

type Property struct {
	gorm.Model
	OwnerID     uint   `json:"ownerID" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ListingType string `json:"listingType" gorm:"type:varchar(20);index;not null"` // FOR_RENT, FOR_SALE

	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 string  `json:"addressLine2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Zip          string  `json:"zip"`
	Country      string  `json:"country"`
	Lat          float32 `json:"lat"`
	Lng          float32 `json:"lng"`

	Bedrooms  int     `json:"bedrooms"`
	Bathrooms float32 `json:"bathrooms"`
	AreaSqm   float64 `json:"areaSqm"`

	// FOR_RENT pricing
	MonthlyRent   float32 `json:"monthlyRent"`
	DepositAmount float32 `json:"depositAmount"`
	// FOR_SALE pricing
	SalePrice float64 `json:"salePrice"`
	Currency  string  `json:"currency" gorm:"type:varchar(8);default:'USD'"`

	Amenities string `json:"amenities"` // JSON array string
	Images    string `json:"images"`    // JSON array of URLs

	IsPublished *bool  `json:"isPublished" gorm:"default:false"`
	Status      string `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, approved, rejected, sold
	ReviewNotes string `json:"reviewNotes" gorm:"type:text"`
	IsFlagged   bool   `json:"isFlagged" gorm:"default:false;index"`
	FlagReason  string `json:"flagReason" gorm:"type:text"`

	Owner    *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:PropertyID"`
}

// MarshalJSON converts the Images and Amenities JSON strings to arrays.
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Images    []string `json:"images"`
		Amenities []string `json:"amenities"`
		Owner     *User    `json:"owner,omitempty"`
		*Alias
	}{
		Images:    []string{},
		Amenities: []string{},
		Alias:     (*Alias)(p),
	}

	if p.Images != "" {
		var images []string
		if err := json.Unmarshal([]byte(p.Images), &images); err == nil {
			aux.Images = images
		}
	}

	if p.Amenities != "" {
		var amenities []string
		if err := json.Unmarshal([]byte(p.Amenities), &amenities); err == nil {
			aux.Amenities = amenities
		}
	}

	// Break the owner->properties->owner cycle before emitting
	if p.Owner != nil && p.Owner.ID > 0 {
		ownerCopy := *p.Owner
		ownerCopy.Properties = nil
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}
