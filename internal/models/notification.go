// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	BaseModel
	UserID       uuid.UUID            `json:"user_id" gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1"`
	Type         NotificationType     `json:"type" gorm:"type:varchar(30);not null"`
	Title        string               `json:"title" gorm:"size:255;not null"`
	Message      string               `json:"message" gorm:"type:text;not null"`
	Data         JSONB                `json:"data,omitempty" gorm:"type:jsonb"`
	Read         bool                 `json:"read" gorm:"default:false"`
	Priority     NotificationPriority `json:"priority" gorm:"type:varchar(10);default:'medium'"`
	ScheduledFor *time.Time           `json:"scheduled_for,omitempty"`

	// Relationships
	Owner User `json:"-" gorm:"foreignKey:UserID"`
}
