package model

import "time"

type Order struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"not null;index"`
	Status    string `gorm:"not null;index"`
	Total     float64
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots the unit price at purchase time; entitlement checks
// join through the parent order's status.
type OrderItem struct {
	ID        string `gorm:"primaryKey"`
	OrderID   string `gorm:"not null;index"`
	ProductID string `gorm:"not null;index"`
	Quantity  int    `gorm:"default:1"`
	Price     float64
	CreatedAt time.Time

	Product Product `gorm:"foreignKey:ProductID"`
}
