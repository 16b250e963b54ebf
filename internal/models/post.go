// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a titled body of text owned by exactly one account.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:40;not null" json:"title"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	AccountID uint           `gorm:"not null;index" json:"account_id"`
	Author    *Account       `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"author,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// OwnedBy reports whether accountID owns the post.
func (p *Post) OwnedBy(accountID uint) bool {
	return p != nil && accountID != 0 && p.AccountID == accountID
}
