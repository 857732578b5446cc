package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a single tracked item owned by one user. It may be shared
// read-only with other users via SharedWith.
type Task struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	OwnerID        string     `gorm:"index:idx_owner_status;index:idx_owner_category" json:"ownerId"`
	CategoryID     *string    `gorm:"index:idx_owner_category" json:"categoryId"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         Status     `gorm:"index:idx_owner_status;default:todo" json:"status"`
	Priority       Priority   `gorm:"default:medium" json:"priority"`
	DueDate        *time.Time `gorm:"index" json:"dueDate,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	Tags           []string   `gorm:"serializer:json" json:"tags"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty"`
	SharedWith     []string   `gorm:"serializer:json" json:"sharedWith"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Owner    *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (t *Task) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsSharedWith reports whether the task has been shared with the given user.
func (t *Task) IsSharedWith(userID string) bool {
	for _, id := range t.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}
