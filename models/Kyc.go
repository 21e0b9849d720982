package models

import (
	"time"

	"gorm.io/gorm"
)

// IdentityVerification is a KYC submission reviewed by support staff or
// admins. User.VerificationStatus mirrors the latest submission.
type IdentityVerification struct {
	gorm.Model
	UserID uint `json:"userID" gorm:"index;not null"`

	IDType       string `json:"idType" gorm:"size:30"` // passport, national_id, drivers_license
	IDNumber     string `json:"idNumber" gorm:"size:64"`
	IDFrontImage string `json:"idFrontImage"`
	IDBackImage  string `json:"idBackImage"`
	SelfieImage  string `json:"selfieImage"`

	Status      string     `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, approved, rejected
	ReviewNotes string     `json:"reviewNotes" gorm:"type:text"`
	ReviewedBy  *uint      `json:"reviewedBy"`
	ReviewedAt  *time.Time `json:"reviewedAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
