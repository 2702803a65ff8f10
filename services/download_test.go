package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/printvault/printvault_api/dto"
	"github.com/printvault/printvault_api/model"
	"github.com/printvault/printvault_api/services/repositories"
	"github.com/printvault/printvault_api/shared"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

type gateFixture struct {
	svc     *DownloadService
	storage *StorageService
	limiter *RateLimitService
	db      *gorm.DB
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	db := newTestDB(t)
	storage := newTestStorageService(t)
	limiter := newTestRateLimitService(NewMemoryBucketStore())

	svc := &DownloadService{
		rateLimitSvc: limiter,
		storageSvc:   storage,
		productRepo:  repositories.NewProductRepository(db),
		orderRepo:    repositories.NewOrderRepository(db),
		downloadRepo: repositories.NewDownloadRepository(db),
	}

	return &gateFixture{svc: svc, storage: storage, limiter: limiter, db: db}
}

func (f *gateFixture) createProduct(t *testing.T, slug, fileURL string, isFree bool, price float64) *model.Product {
	t.Helper()

	product, err := f.svc.productRepo.Create(&model.Product{
		Name:     slug,
		Slug:     slug,
		Price:    price,
		IsFree:   isFree,
		Category: shared.CategoryOther,
		FileURL:  fileURL,
	})
	require.NoError(t, err)
	return product
}

func (f *gateFixture) createUser(t *testing.T, email string) *model.User {
	t.Helper()

	user, err := repositories.NewUserRepository(f.db).Create(&model.User{
		Email:    email,
		Name:     "Test User",
		Password: "x",
		Role:     shared.RoleUser,
	})
	require.NoError(t, err)
	return user
}

func (f *gateFixture) createCompletedOrder(t *testing.T, userID string, product *model.Product) {
	t.Helper()

	_, err := f.svc.orderRepo.Create(&model.Order{
		UserID: userID,
		Status: shared.OrderStatusCompleted,
		Total:  product.Price,
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 1, Price: product.Price},
		},
	})
	require.NoError(t, err)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok, "expected an application error, got %v", err)
	return appErr.StatusCode
}

func TestResolveIdentity(t *testing.T) {
	svc := &DownloadService{}

	identity, authenticated := svc.ResolveIdentity(dto.DownloadRequest{UserID: "user-1", ForwardedFor: "1.2.3.4"})
	assert.Equal(t, "user-1", identity)
	assert.True(t, authenticated)

	identity, authenticated = svc.ResolveIdentity(dto.DownloadRequest{ForwardedFor: " 1.2.3.4 , 10.0.0.1"})
	assert.Equal(t, "1.2.3.4", identity)
	assert.False(t, authenticated)

	identity, authenticated = svc.ResolveIdentity(dto.DownloadRequest{RealIP: "5.6.7.8"})
	assert.Equal(t, "5.6.7.8", identity)
	assert.False(t, authenticated)

	identity, authenticated = svc.ResolveIdentity(dto.DownloadRequest{})
	assert.Equal(t, "unknown", identity)
	assert.False(t, authenticated)
}

func TestHasAccess(t *testing.T) {
	f := newGateFixture(t)

	free := f.createProduct(t, "free-model", "models/free/a.stl", true, 0)
	paid := f.createProduct(t, "paid-model", "models/premium/b.zip", false, 19.99)
	user := f.createUser(t, "buyer@example.com")

	// Free assets are entitled for everyone, signed in or not.
	ok, err := f.svc.HasAccess("", free.ID, free.IsFree)
	require.NoError(t, err)
	assert.True(t, ok)

	// Anonymous identities never hold paid entitlements.
	ok, err = f.svc.HasAccess("", paid.ID, paid.IsFree)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.HasAccess(user.ID, paid.ID, paid.IsFree)
	require.NoError(t, err)
	assert.False(t, ok)

	f.createCompletedOrder(t, user.ID, paid)

	ok, err = f.svc.HasAccess(user.ID, paid.ID, paid.IsFree)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasAccess_PendingOrderDoesNotEntitle(t *testing.T) {
	f := newGateFixture(t)

	paid := f.createProduct(t, "paid-model", "models/premium/b.zip", false, 19.99)
	user := f.createUser(t, "buyer@example.com")

	_, err := f.svc.orderRepo.Create(&model.Order{
		UserID: user.ID,
		Status: shared.OrderStatusPending,
		Total:  paid.Price,
		Items: []model.OrderItem{
			{ProductID: paid.ID, Quantity: 1, Price: paid.Price},
		},
	})
	require.NoError(t, err)

	ok, err := f.svc.HasAccess(user.ID, paid.ID, paid.IsFree)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluate_ServesFreeModelAnonymously(t *testing.T) {
	f := newGateFixture(t)

	payload := []byte("solid dragon")
	_, err := f.storage.WriteFile("models/free/dragon.stl", payload)
	require.NoError(t, err)

	product := f.createProduct(t, "articulated-dragon", "models/free/dragon.stl", true, 0)

	result, info, err := f.svc.Evaluate(dto.DownloadRequest{
		ProductID:    product.ID,
		ForwardedFor: "203.0.113.7",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, info)

	assert.Equal(t, payload, result.Data)
	assert.Equal(t, "articulated-dragon.stl", result.FileName)
	assert.Equal(t, "application/sla", result.ContentType)
	assert.Equal(t, 5, info.Limit)
	assert.Equal(t, 4, info.Remaining)
}

func TestEvaluate_UnknownProduct(t *testing.T) {
	f := newGateFixture(t)

	_, _, err := f.svc.Evaluate(dto.DownloadRequest{ProductID: "no-such-id", RealIP: "1.1.1.1"})
	assert.Equal(t, 404, statusOf(t, err))
}

func TestEvaluate_AnonymousBudgetThenTooManyRequests(t *testing.T) {
	f := newGateFixture(t)

	payload := []byte("solid cube")
	_, err := f.storage.WriteFile("models/free/cube.stl", payload)
	require.NoError(t, err)

	product := f.createProduct(t, "sample-cube", "models/free/cube.stl", true, 0)
	req := dto.DownloadRequest{ProductID: product.ID, ForwardedFor: "203.0.113.7"}

	for i, wantRemaining := range []int{4, 3, 2, 1, 0} {
		result, info, err := f.svc.Evaluate(req)
		require.NoError(t, err, "download %d should succeed", i+1)
		require.NotNil(t, result)
		assert.Equal(t, wantRemaining, info.Remaining)
	}

	_, info, err := f.svc.Evaluate(req)
	require.Error(t, err)
	assert.Equal(t, 429, statusOf(t, err))
	require.NotNil(t, info)
	assert.Equal(t, 0, info.Remaining)

	appErr, _ := shared.GetAppError(err)
	payload429, ok := appErr.Data.(dto.RateLimitExceeded)
	require.True(t, ok)
	assert.GreaterOrEqual(t, payload429.RetryAfter, 0)

	_, parseErr := time.Parse(time.RFC3339, payload429.ResetTime)
	assert.NoError(t, parseErr)
}

func TestEvaluate_RateLimitCheckedBeforeEntitlement(t *testing.T) {
	f := newGateFixture(t)

	product := f.createProduct(t, "cyberpunk-helmet", "models/premium/helmet.zip", false, 24.99)
	req := dto.DownloadRequest{ProductID: product.ID, ForwardedFor: "203.0.113.7"}

	// Unentitled attempts still consume budget; once it is gone the gate
	// answers 429, not 403.
	for i := 0; i < 5; i++ {
		_, _, err := f.svc.Evaluate(req)
		require.Error(t, err)
		assert.Equal(t, 403, statusOf(t, err), "attempt %d", i+1)
	}

	_, _, err := f.svc.Evaluate(req)
	require.Error(t, err)
	assert.Equal(t, 429, statusOf(t, err))
}

func TestEvaluate_PaidModelRequiresPurchase(t *testing.T) {
	f := newGateFixture(t)

	payload := []byte("premium content")
	_, err := f.storage.WriteFile("models/premium/helmet.zip", payload)
	require.NoError(t, err)

	product := f.createProduct(t, "cyberpunk-helmet", "models/premium/helmet.zip", false, 24.99)
	user := f.createUser(t, "buyer@example.com")
	req := dto.DownloadRequest{ProductID: product.ID, UserID: user.ID}

	_, _, err = f.svc.Evaluate(req)
	require.Error(t, err)
	assert.Equal(t, 403, statusOf(t, err))
	appErr, _ := shared.GetAppError(err)
	assert.Equal(t, "Please purchase this product to download", appErr.Message)

	f.createCompletedOrder(t, user.ID, product)

	result, info, err := f.svc.Evaluate(req)
	require.NoError(t, err)
	assert.Equal(t, payload, result.Data)
	assert.Equal(t, "cyberpunk-helmet.zip", result.FileName)
	assert.Equal(t, "application/zip", result.ContentType)
	assert.Equal(t, 20, info.Limit)
}

func TestEvaluate_InvalidStoredPath(t *testing.T) {
	f := newGateFixture(t)

	escaping := f.createProduct(t, "escape", "../../etc/passwd.stl", true, 0)
	badExt := f.createProduct(t, "bad-ext", "models/free/mesh.obj", true, 0)

	_, _, err := f.svc.Evaluate(dto.DownloadRequest{ProductID: escaping.ID, RealIP: "1.1.1.1"})
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))
	appErr, _ := shared.GetAppError(err)
	// The stored path never leaks to the client.
	assert.Equal(t, "Invalid file request", appErr.Message)

	_, _, err = f.svc.Evaluate(dto.DownloadRequest{ProductID: badExt.ID, RealIP: "1.1.1.1"})
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))
}

func TestEvaluate_MissingFile(t *testing.T) {
	f := newGateFixture(t)

	product := f.createProduct(t, "ghost", "models/free/ghost.stl", true, 0)

	_, _, err := f.svc.Evaluate(dto.DownloadRequest{ProductID: product.ID, RealIP: "1.1.1.1"})
	require.Error(t, err)
	assert.Equal(t, 404, statusOf(t, err))
	appErr, _ := shared.GetAppError(err)
	assert.Equal(t, "File not found", appErr.Message)
}

func TestEvaluate_AuthenticatedBudgetIsSeparate(t *testing.T) {
	f := newGateFixture(t)

	payload := []byte("solid cube")
	_, err := f.storage.WriteFile("models/free/cube.stl", payload)
	require.NoError(t, err)

	product := f.createProduct(t, "sample-cube", "models/free/cube.stl", true, 0)
	user := f.createUser(t, "downloader@example.com")

	// Exhaust the anonymous budget from one address.
	anonReq := dto.DownloadRequest{ProductID: product.ID, ForwardedFor: "203.0.113.7"}
	for i := 0; i < 5; i++ {
		_, _, err := f.svc.Evaluate(anonReq)
		require.NoError(t, err)
	}
	_, _, err = f.svc.Evaluate(anonReq)
	assert.Equal(t, 429, statusOf(t, err))

	// The authenticated identity keys on the account, not the address.
	authReq := dto.DownloadRequest{ProductID: product.ID, UserID: user.ID, ForwardedFor: "203.0.113.7"}
	_, info, err := f.svc.Evaluate(authReq)
	require.NoError(t, err)
	assert.Equal(t, 20, info.Limit)
	assert.Equal(t, 19, info.Remaining)
}
