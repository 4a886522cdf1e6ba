package models

import "time"

// Product represents a game listed in the store.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	Category    string    `json:"category" gorm:"type:varchar(100);index"`
	ImageURL    *string   `json:"image_url" gorm:"type:varchar(500)"`
	CreatedAt   time.Time `json:"created_at"`
}

// SafePrice returns the price coerced to a finite, non-negative number.
func (p Product) SafePrice() float64 {
	return CoercePrice(p.Price)
}
