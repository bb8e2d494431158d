package models

import "time"

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// AllStatuses lists every order status, in lifecycle order.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted from s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentMethod is recorded on the order but never processed here
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentUPI    PaymentMethod = "upi"
	PaymentWallet PaymentMethod = "wallet"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentWallet:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// DeliveryAddress is captured at creation and immutable afterwards.
type DeliveryAddress struct {
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zip_code"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type Order struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	OrderNumber  string `json:"order_number" gorm:"uniqueIndex;not null"`
	UserID       uint   `json:"user_id" gorm:"index;not null"`
	User         *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RestaurantID uint   `json:"restaurant_id" gorm:"index;not null"`
	Restaurant   *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`

	// Money fields are computed once at creation and never client-supplied.
	Subtotal    float64 `json:"subtotal" gorm:"not null"`
	DeliveryFee float64 `json:"delivery_fee" gorm:"not null"`
	Tax         float64 `json:"tax" gorm:"not null"`
	Total       float64 `json:"total" gorm:"not null"`

	Status        OrderStatus   `json:"status" gorm:"index;not null;default:'pending'"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"not null"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"not null;default:'pending'"`

	DeliveryAddress      DeliveryAddress `json:"delivery_address" gorm:"embedded;embeddedPrefix:addr_"`
	DeliveryInstructions string          `json:"delivery_instructions,omitempty"`

	OrderTime             time.Time  `json:"order_time" gorm:"index;not null"`
	EstimatedDeliveryTime time.Time  `json:"estimated_delivery_time" gorm:"not null"`
	PreparationTime       *time.Time `json:"preparation_time,omitempty"`
	ReadyTime             *time.Time `json:"ready_time,omitempty"`
	OutForDeliveryTime    *time.Time `json:"out_for_delivery_time,omitempty"`
	ActualDeliveryTime    *time.Time `json:"actual_delivery_time,omitempty"`
	CancelledAt           *time.Time `json:"cancelled_at,omitempty"`

	CancelledBy        UserRole `json:"cancelled_by,omitempty"`
	CancellationReason string   `json:"cancellation_reason,omitempty"`

	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is a line-item snapshot: name and unit price are frozen at
// creation time and survive later catalog edits or deletions.
type OrderItem struct {
	ID                  uint    `json:"id" gorm:"primaryKey"`
	OrderID             uint    `json:"order_id" gorm:"index;not null"`
	MenuItemID          uint    `json:"menu_item_id" gorm:"not null"`
	Name                string  `json:"name" gorm:"not null"`
	UnitPrice           float64 `json:"unit_price" gorm:"not null"`
	Quantity            int     `json:"quantity" gorm:"not null"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
	LineTotal           float64 `json:"line_total" gorm:"not null"`
}

// OrderStatusHistory tracks every status change for the audit trail
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"index;not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
