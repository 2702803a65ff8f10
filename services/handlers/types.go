package handlers

import (
	"mime/multipart"

	"github.com/printvault/printvault_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest, clientIP string) (*dto.LoginResponse, error)
	GetProfile(userID string) (*dto.UserInfo, error)
	AdminListUsers(page, limit int, search string) (*dto.UserListResponse, error)
	AdminUpdateUserRole(userID, role string) (*dto.UserInfo, error)
	AdminDeleteUser(userID, actingUserID string) error
}

type ProductServiceInterface interface {
	ListProducts(req dto.ProductListRequest) (*dto.ProductListResponse, error)
	GetProductBySlug(slug string) (*dto.ProductResponse, error)
	GetCategories() ([]dto.CategoryResponse, error)
	CreateProduct(req dto.CreateProductRequest) (*dto.ProductResponse, error)
	UpdateProduct(id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(id string) error
	SetThumbnail(id, url string) (*dto.ProductResponse, error)
}

type OrderServiceInterface interface {
	Checkout(userID string, req dto.CheckoutRequest) (*dto.OrderResponse, error)
	ListMine(userID string, page, limit int) (*dto.OrderListResponse, error)
	GetMine(userID, orderID string) (*dto.OrderResponse, error)
	AdminListOrders(status string, page, limit int) (*dto.OrderListResponse, error)
	AdminStats() (*dto.AdminStatsResponse, error)
}

type DownloadServiceInterface interface {
	Evaluate(req dto.DownloadRequest) (*dto.DownloadResult, *dto.RateLimitInfo, error)
}

type RateLimitServiceInterface interface {
	Stats() dto.DownloadsStatsResponse
	Reset(identity string) error
}

type MediaServiceInterface interface {
	UploadModelFile(file *multipart.FileHeader) (*dto.MediaUploadResponse, error)
	UploadThumbnail(productID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error)
}
