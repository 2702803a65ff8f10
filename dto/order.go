package dto

import "time"

type CheckoutItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type CheckoutRequest struct {
	Items []CheckoutItem `json:"items" validate:"required,min=1,dive"`
}

func (r CheckoutRequest) Validate() error {
	return GetValidator().Struct(r)
}

type OrderItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Slug        string  `json:"slug"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type OrderResponse struct {
	ID        string              `json:"id"`
	Status    string              `json:"status"`
	Total     float64             `json:"total"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []OrderItemResponse `json:"items"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

type AdminStatsResponse struct {
	TotalRevenue   float64           `json:"total_revenue"`
	TotalOrders    int64             `json:"total_orders"`
	TotalUsers     int64             `json:"total_users"`
	TotalProducts  int64             `json:"total_products"`
	TotalDownloads int64             `json:"total_downloads"`
	TopProducts    []ProductResponse `json:"top_products"`
}
