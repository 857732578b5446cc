package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCategoryColor is applied when a category is created without a color.
const DefaultCategoryColor = "#3B82F6"

// Category groups tasks by area (work, health, study, etc.). A nil OwnerID
// marks a global category usable by every user. TaskCount is denormalized and
// must equal the number of tasks currently referencing the category.
type Category struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	OwnerID   *string   `gorm:"index" json:"ownerId"`
	Name      string    `json:"name"`
	Color     string    `gorm:"default:#3B82F6" json:"color"`
	TaskCount int64     `gorm:"default:0" json:"taskCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Tasks []Task `gorm:"foreignKey:CategoryID" json:"-"`
}

func (c *Category) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// IsGlobal reports whether the category has no owner and is usable by anyone.
func (c *Category) IsGlobal() bool {
	return c.OwnerID == nil
}
