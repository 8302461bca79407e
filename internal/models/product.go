package models

import "time"

// Product represents a catalog entry. Deleting a product only flips IsDeleted.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:varchar(2000);not null"`
	Price       float64   `json:"price" gorm:"not null"`
	Tags        []string  `json:"tags" gorm:"type:text;serializer:json"`
	Category    *string   `json:"category,omitempty" gorm:"type:varchar(255);index"`
	Brand       *string   `json:"brand,omitempty" gorm:"type:varchar(255);index"`
	IsDeleted   bool      `json:"isDeleted" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OptionalString turns an empty string into nil so that absent and empty
// categories or brands are stored the same way.
func OptionalString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
