package services

import (
	"errors"
	"fmt"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/printvault/printvault_api/dto"
	"github.com/printvault/printvault_api/model"
	"github.com/printvault/printvault_api/services/repositories"
	"github.com/printvault/printvault_api/shared"
)

// OrderService implements the simulated checkout flow. There is no payment
// processor: a valid checkout creates a COMPLETED order immediately, which is
// what the download gate's entitlement check reads.
type OrderService struct {
	context.DefaultService

	sqlSvc   *SqlService
	emailSvc *EmailService

	orderRepo   *repositories.OrderRepository
	productRepo *repositories.ProductRepository
	userRepo    *repositories.UserRepository
}

const ORDER_SVC = "order_svc"

func (svc OrderService) Id() string {
	return ORDER_SVC
}

func (svc *OrderService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *OrderService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.emailSvc = svc.Service(EMAIL_SVC).(*EmailService)
	svc.orderRepo = repositories.NewOrderRepository(svc.sqlSvc.Db())
	svc.productRepo = repositories.NewProductRepository(svc.sqlSvc.Db())
	svc.userRepo = repositories.NewUserRepository(svc.sqlSvc.Db())
	return nil
}

func (svc *OrderService) Checkout(userID string, req dto.CheckoutRequest) (*dto.OrderResponse, error) {
	seen := map[string]bool{}
	items := make([]model.OrderItem, 0, len(req.Items))
	total := 0.0

	for _, item := range req.Items {
		if seen[item.ProductID] {
			return nil, shared.NewBadRequestError(errors.New("duplicate item"), "Duplicate product in cart")
		}
		seen[item.ProductID] = true

		product, err := svc.productRepo.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, shared.NewNotFoundError(err, fmt.Sprintf("Product %s not found", item.ProductID))
			}
			return nil, shared.NewInternalError(err, "Failed to load product")
		}

		if product.IsFree {
			return nil, shared.NewBadRequestError(errors.New("free product in cart"), "Free products do not need to be purchased")
		}

		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	order := &model.Order{
		UserID: userID,
		Status: shared.OrderStatusCompleted,
		Total:  total,
		Items:  items,
	}

	order, err := svc.orderRepo.Create(order)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to create order")
	}

	// Reload with preloads so the response carries product names.
	order, err = svc.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load order")
	}

	log.WithFields(log.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    total,
		"items":    len(items),
	}).Info("Order completed")

	go svc.sendReceipt(userID, order)

	resp := svc.mapOrderResponse(order)
	return &resp, nil
}

func (svc *OrderService) ListMine(userID string, page, limit int) (*dto.OrderListResponse, error) {
	orders, total, err := svc.orderRepo.ListByUser(userID, page, limit)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to list orders")
	}
	return svc.mapOrderList(orders, total, page, limit), nil
}

func (svc *OrderService) GetMine(userID, orderID string) (*dto.OrderResponse, error) {
	order, err := svc.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Order not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load order")
	}

	// Owners only. Admins use the admin listing instead.
	if order.UserID != userID {
		return nil, shared.NewNotFoundError(errors.New("order belongs to another user"), "Order not found")
	}

	resp := svc.mapOrderResponse(order)
	return &resp, nil
}

// ==================== ADMIN ====================

func (svc *OrderService) AdminListOrders(status string, page, limit int) (*dto.OrderListResponse, error) {
	orders, total, err := svc.orderRepo.List(status, page, limit)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to list orders")
	}
	return svc.mapOrderList(orders, total, page, limit), nil
}

func (svc *OrderService) AdminStats() (*dto.AdminStatsResponse, error) {
	revenue, err := svc.orderRepo.TotalRevenue()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to compute revenue")
	}
	orderCount, err := svc.orderRepo.Count()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to count orders")
	}
	userCount, err := svc.userRepo.Count()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to count users")
	}
	productCount, err := svc.productRepo.Count()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to count products")
	}
	downloads, err := svc.productRepo.TotalDownloads()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to count downloads")
	}
	top, err := svc.productRepo.TopByDownloads(5)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load top products")
	}

	topResponses := make([]dto.ProductResponse, 0, len(top))
	for i := range top {
		topResponses = append(topResponses, MapProductResponse(&top[i]))
	}

	return &dto.AdminStatsResponse{
		TotalRevenue:   revenue,
		TotalOrders:    orderCount,
		TotalUsers:     userCount,
		TotalProducts:  productCount,
		TotalDownloads: downloads,
		TopProducts:    topResponses,
	}, nil
}

func (svc *OrderService) sendReceipt(userID string, order *model.Order) {
	user, err := svc.userRepo.GetByID(userID)
	if err != nil {
		log.WithError(err).Warn("Receipt skipped, user lookup failed")
		return
	}

	if err := svc.emailSvc.SendOrderReceipt(user, order); err != nil {
		log.WithFields(log.Fields{"order_id": order.ID, "error": err}).Warn("Failed to send order receipt")
	}
}

func (svc *OrderService) mapOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Slug:        item.Product.Slug,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	return dto.OrderResponse{
		ID:        order.ID,
		Status:    order.Status,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
		Items:     items,
	}
}

func (svc *OrderService) mapOrderList(orders []model.Order, total int64, page, limit int) *dto.OrderListResponse {
	responses := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, svc.mapOrderResponse(&orders[i]))
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return &dto.OrderListResponse{
		Orders: responses,
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
}
