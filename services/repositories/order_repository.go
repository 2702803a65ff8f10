package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printvault/printvault_api/model"
	"github.com/printvault/printvault_api/shared"
)

type OrderRepository struct {
	BaseRepository
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create persists the order and its items in one transaction.
func (ds *OrderRepository) Create(order *model.Order) (*model.Order, error) {
	if order.ID == "" {
		id, _ := uuid.NewV7()
		order.ID = id.String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			id, _ := uuid.NewV7()
			order.Items[i].ID = id.String()
		}
		order.Items[i].OrderID = order.ID
	}

	if err := ds.db.Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (ds *OrderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	err := ds.db.Preload("Items").Preload("Items.Product").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (ds *OrderRepository) ListByUser(userID string, page, limit int) ([]model.Order, int64, error) {
	query := ds.db.Model(&model.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var orders []model.Order
	err := ds.db.Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (ds *OrderRepository) List(status string, page, limit int) ([]model.Order, int64, error) {
	query := ds.db.Model(&model.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var orders []model.Order
	err := query.Preload("Items").Preload("Items.Product").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// HasCompletedOrderItem answers the entitlement question: does a completed
// order line bind this user to this product. Errors propagate so callers
// can refuse access instead of silently allowing.
func (ds *OrderRepository) HasCompletedOrderItem(userID, productID string) (bool, error) {
	var count int64
	err := ds.db.Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ?", productID).
		Where("orders.user_id = ?", userID).
		Where("orders.status = ?", shared.OrderStatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ds *OrderRepository) Count() (int64, error) {
	var count int64
	err := ds.db.Model(&model.Order{}).Count(&count).Error
	return count, err
}

func (ds *OrderRepository) TotalRevenue() (float64, error) {
	var total float64
	err := ds.db.Model(&model.Order{}).
		Where("status = ?", shared.OrderStatusCompleted).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}
