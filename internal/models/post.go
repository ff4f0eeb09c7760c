package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a blog post in Quill.
type Post struct {
	ID          string   `gorm:"type:varchar(36);primaryKey" json:"id" bson:"_id"`
	Title       string   `gorm:"size:100;not null" json:"title" bson:"title"`
	Content     string   `gorm:"type:text;not null" json:"content" bson:"content"`
	AuthorID    string   `gorm:"type:varchar(36);not null;index" json:"authorId" bson:"authorId"`
	Author      *User    `gorm:"foreignKey:AuthorID" json:"author,omitempty" bson:"author,omitempty"`
	Tags        []string `gorm:"type:text;serializer:json" json:"tags" bson:"tags"`
	IsPublished bool     `gorm:"not null;index" json:"isPublished" bson:"isPublished"`
	// CommentCount is not persisted; attached by published listings
	CommentCount *int64    `gorm:"-" json:"commentCount,omitempty" bson:"-"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BeforeCreate assigns a UUID and normalizes nil tags.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return nil
}
