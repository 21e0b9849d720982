package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email" gorm:"uniqueIndex"`
	PhoneNumber    string `json:"phoneNumber"`
	Password       string `json:"-"`
	SocialLogin    bool   `json:"socialLogin"`
	SocialProvider string `json:"socialProvider"`
	AvatarURL      string `json:"avatarURL"`
	Bio            string `json:"bio"`

	RoleID uint `json:"roleID" gorm:"index;not null"`
	Role   Role `json:"role" gorm:"foreignKey:RoleID"`

	IsActive            *bool          `json:"isActive" gorm:"default:true"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	PushTokens          datatypes.JSON `json:"pushTokens"`

	// KYC flags, updated by verification review
	IsVerified         *bool  `json:"isVerified"`
	VerificationStatus string `json:"verificationStatus" gorm:"size:20"` // pending, approved, rejected

	Properties []Property `json:"properties" gorm:"foreignKey:OwnerID"`
}

// MarshalJSON flattens the PushTokens JSON column to a string slice and
// drops the owned-properties back reference to avoid circular output.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		PushTokens []string   `json:"pushTokens,omitempty"`
		Properties []Property `json:"properties,omitempty"`
		*Alias
	}{
		PushTokens: []string{},
		Alias:      (*Alias)(u),
	}

	if u.PushTokens != nil {
		var tokens []string
		if err := json.Unmarshal(u.PushTokens, &tokens); err == nil {
			aux.PushTokens = tokens
		}
	}

	return json.Marshal(aux)
}
