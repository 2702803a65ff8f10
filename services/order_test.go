package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/printvault/printvault_api/dto"
	"github.com/printvault/printvault_api/model"
	"github.com/printvault/printvault_api/services/repositories"
	"github.com/printvault/printvault_api/shared"
)

type marketFixture struct {
	db         *gorm.DB
	orderSvc   *OrderService
	productSvc *ProductService
	userRepo   *repositories.UserRepository
}

func newMarketFixture(t *testing.T) *marketFixture {
	t.Helper()

	db := newTestDB(t)

	productSvc := &ProductService{productRepo: repositories.NewProductRepository(db)}
	orderSvc := &OrderService{
		emailSvc:    &EmailService{},
		orderRepo:   repositories.NewOrderRepository(db),
		productRepo: repositories.NewProductRepository(db),
		userRepo:    repositories.NewUserRepository(db),
	}

	return &marketFixture{
		db:         db,
		orderSvc:   orderSvc,
		productSvc: productSvc,
		userRepo:   repositories.NewUserRepository(db),
	}
}

func (f *marketFixture) createUser(t *testing.T, email string) *model.User {
	t.Helper()

	user, err := f.userRepo.Create(&model.User{
		Email:    email,
		Name:     "Buyer",
		Password: "x",
		Role:     shared.RoleUser,
	})
	require.NoError(t, err)
	return user
}

func TestProductService_CreateAndFetch(t *testing.T) {
	f := newMarketFixture(t)

	created, err := f.productSvc.CreateProduct(dto.CreateProductRequest{
		Name:     "Articulated Dragon",
		Slug:     "articulated-dragon",
		Price:    0,
		Category: shared.CategoryFigures,
		Tags:     []string{"dragon", "print-in-place"},
		FileURL:  "models/free/dragon.stl",
		FileSize: 12.5,
		Featured: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsFree, "zero-priced products are free")

	fetched, err := f.productSvc.GetProductBySlug("articulated-dragon")
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	_, err = f.productSvc.GetProductBySlug("no-such-slug")
	require.Error(t, err)
	assert.Equal(t, 404, statusOf(t, err))

	_, err = f.productSvc.CreateProduct(dto.CreateProductRequest{
		Name:     "Duplicate",
		Slug:     "articulated-dragon",
		Category: shared.CategoryFigures,
		FileURL:  "models/free/dup.stl",
	})
	require.Error(t, err)
	assert.Equal(t, 409, statusOf(t, err))
}

func TestProductService_ListFilters(t *testing.T) {
	f := newMarketFixture(t)

	seed := []dto.CreateProductRequest{
		{Name: "Dragon", Slug: "dragon", Category: shared.CategoryFigures, FileURL: "a.stl", IsFree: true, Featured: true},
		{Name: "Helmet", Slug: "helmet", Category: shared.CategoryOther, FileURL: "b.zip", Price: 24.99},
		{Name: "Gear Toy", Slug: "gear-toy", Category: shared.CategoryToys, FileURL: "c.stl", IsFree: true},
	}
	for _, req := range seed {
		_, err := f.productSvc.CreateProduct(req)
		require.NoError(t, err)
	}

	all, err := f.productSvc.ListProducts(dto.ProductListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	free, err := f.productSvc.ListProducts(dto.ProductListRequest{Free: "true"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), free.Total)

	figures, err := f.productSvc.ListProducts(dto.ProductListRequest{Category: shared.CategoryFigures})
	require.NoError(t, err)
	assert.Equal(t, int64(1), figures.Total)
	assert.Equal(t, "dragon", figures.Products[0].Slug)

	search, err := f.productSvc.ListProducts(dto.ProductListRequest{Search: "helm"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), search.Total)
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	f := newMarketFixture(t)

	created, err := f.productSvc.CreateProduct(dto.CreateProductRequest{
		Name:     "Helmet",
		Slug:     "helmet",
		Category: shared.CategoryOther,
		FileURL:  "models/premium/helmet.zip",
		Price:    24.99,
	})
	require.NoError(t, err)

	newPrice := 29.99
	updated, err := f.productSvc.UpdateProduct(created.ID, dto.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 29.99, updated.Price)
	assert.Equal(t, "Helmet", updated.Name, "untouched fields survive a partial update")

	require.NoError(t, f.productSvc.DeleteProduct(created.ID))

	err = f.productSvc.DeleteProduct(created.ID)
	require.Error(t, err)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestOrderService_Checkout(t *testing.T) {
	f := newMarketFixture(t)

	user := f.createUser(t, "buyer@example.com")
	helmet, err := f.productSvc.CreateProduct(dto.CreateProductRequest{
		Name: "Helmet", Slug: "helmet", Category: shared.CategoryOther,
		FileURL: "models/premium/helmet.zip", Price: 24.99,
	})
	require.NoError(t, err)
	armor, err := f.productSvc.CreateProduct(dto.CreateProductRequest{
		Name: "Armor", Slug: "armor", Category: shared.CategoryOther,
		FileURL: "models/premium/armor.zip", Price: 49.99,
	})
	require.NoError(t, err)

	order, err := f.orderSvc.Checkout(user.ID, dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: helmet.ID, Quantity: 1},
			{ProductID: armor.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, shared.OrderStatusCompleted, order.Status)
	assert.InDelta(t, 24.99+2*49.99, order.Total, 0.001)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "helmet", order.Items[0].Slug)

	// The completed order entitles the buyer immediately.
	entitled, err := f.orderSvc.orderRepo.HasCompletedOrderItem(user.ID, helmet.ID)
	require.NoError(t, err)
	assert.True(t, entitled)
}

func TestOrderService_CheckoutRejectsFreeAndDuplicateItems(t *testing.T) {
	f := newMarketFixture(t)

	user := f.createUser(t, "buyer@example.com")
	free, err := f.productSvc.CreateProduct(dto.CreateProductRequest{
		Name: "Cube", Slug: "cube", Category: shared.CategoryOther,
		FileURL: "models/free/cube.stl", IsFree: true,
	})
	require.NoError(t, err)
	paid, err := f.productSvc.CreateProduct(dto.CreateProductRequest{
		Name: "Helmet", Slug: "helmet", Category: shared.CategoryOther,
		FileURL: "models/premium/helmet.zip", Price: 24.99,
	})
	require.NoError(t, err)

	_, err = f.orderSvc.Checkout(user.ID, dto.CheckoutRequest{
		Items: []dto.CheckoutItem{{ProductID: free.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))

	_, err = f.orderSvc.Checkout(user.ID, dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: paid.ID, Quantity: 1},
			{ProductID: paid.ID, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))

	_, err = f.orderSvc.Checkout(user.ID, dto.CheckoutRequest{
		Items: []dto.CheckoutItem{{ProductID: "no-such-product", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestOrderService_GetMineHidesOtherUsersOrders(t *testing.T) {
	f := newMarketFixture(t)

	buyer := f.createUser(t, "buyer@example.com")
	other := f.createUser(t, "other@example.com")
	paid, err := f.productSvc.CreateProduct(dto.CreateProductRequest{
		Name: "Helmet", Slug: "helmet", Category: shared.CategoryOther,
		FileURL: "models/premium/helmet.zip", Price: 24.99,
	})
	require.NoError(t, err)

	order, err := f.orderSvc.Checkout(buyer.ID, dto.CheckoutRequest{
		Items: []dto.CheckoutItem{{ProductID: paid.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	fetched, err := f.orderSvc.GetMine(buyer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)

	_, err = f.orderSvc.GetMine(other.ID, order.ID)
	require.Error(t, err)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestOrderService_AdminStats(t *testing.T) {
	f := newMarketFixture(t)

	user := f.createUser(t, "buyer@example.com")
	paid, err := f.productSvc.CreateProduct(dto.CreateProductRequest{
		Name: "Helmet", Slug: "helmet", Category: shared.CategoryOther,
		FileURL: "models/premium/helmet.zip", Price: 24.99,
	})
	require.NoError(t, err)

	_, err = f.orderSvc.Checkout(user.ID, dto.CheckoutRequest{
		Items: []dto.CheckoutItem{{ProductID: paid.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	stats, err := f.orderSvc.AdminStats()
	require.NoError(t, err)
	assert.InDelta(t, 24.99, stats.TotalRevenue, 0.001)
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalProducts)
}
