package models

import "time"

// RestaurantStatus tracks the admin approval flow for a restaurant
type RestaurantStatus string

const (
	RestaurantPending  RestaurantStatus = "pending"
	RestaurantApproved RestaurantStatus = "approved"
	RestaurantRejected RestaurantStatus = "rejected"
)

type Restaurant struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	OwnerID      uint             `json:"owner_id" gorm:"index;not null"`
	Owner        *User            `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Name         string           `json:"name" gorm:"not null"`
	Cuisine      string           `json:"cuisine"`
	Description  string           `json:"description"`
	Address      string           `json:"address"`
	Phone        string           `json:"phone"`
	Status       RestaurantStatus `json:"status" gorm:"not null;default:'pending'"`
	IsOpen       bool             `json:"is_open" gorm:"default:true"`
	DeliveryTime string           `json:"delivery_time"`
	MinimumOrder float64          `json:"minimum_order" gorm:"default:0"`
	Rating       float64          `json:"rating" gorm:"default:0"`
	TotalReviews int              `json:"total_reviews" gorm:"default:0"`
	MenuItems    []MenuItem       `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type MenuItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	Price        float64   `json:"price" gorm:"not null"`
	Category     string    `json:"category"`
	IsAvailable  bool      `json:"is_available" gorm:"default:true"`
	IsVegetarian bool      `json:"is_vegetarian" gorm:"default:false"`
	SpiceLevel   string    `json:"spice_level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
