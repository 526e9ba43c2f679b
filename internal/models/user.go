// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	DisplayName  string     `json:"display_name" gorm:"size:100"`
	Preferences  JSONB      `json:"preferences" gorm:"type:jsonb"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Products      []Product      `json:"products,omitempty" gorm:"foreignKey:UserID"`
	Recipes       []Recipe       `json:"recipes,omitempty" gorm:"foreignKey:UserID"`
	Notifications []Notification `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
}

// DefaultPreferences returns the preference set assigned at registration.
func DefaultPreferences() JSONB {
	return JSONB{
		"notifications":        true,
		"theme":                "light",
		"language":             "fr",
		"dietary_restrictions": []string{},
		"default_unit":         string(UnitPiece),
		"auto_delete_expired":  false,
		"reminder_days":        3,
	}
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// WantsNotifications reports whether expiry alerts are enabled in the user's
// preferences. Missing or malformed preference data counts as enabled.
func (u *User) WantsNotifications() bool {
	if u.Preferences == nil {
		return true
	}
	if enabled, ok := u.Preferences["notifications"].(bool); ok {
		return enabled
	}
	return true
}
