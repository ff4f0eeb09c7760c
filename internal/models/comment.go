package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a comment attached to a post.
type Comment struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id" bson:"_id"`
	Content   string    `gorm:"size:500;not null" json:"content" bson:"content"`
	PostID    string    `gorm:"type:varchar(36);not null;index" json:"postId" bson:"postId"`
	AuthorID  string    `gorm:"type:varchar(36);not null;index" json:"authorId" bson:"authorId"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty" bson:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
