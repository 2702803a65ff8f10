package services

import (
	"encoding/json"
	"errors"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/printvault/printvault_api/dto"
	"github.com/printvault/printvault_api/model"
	"github.com/printvault/printvault_api/services/repositories"
	"github.com/printvault/printvault_api/shared"
)

type ProductService struct {
	context.DefaultService

	sqlSvc *SqlService

	productRepo *repositories.ProductRepository
}

const PRODUCT_SVC = "product_svc"

func (svc ProductService) Id() string {
	return PRODUCT_SVC
}

func (svc *ProductService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProductService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.productRepo = repositories.NewProductRepository(svc.sqlSvc.Db())
	return nil
}

func (svc *ProductService) ListProducts(req dto.ProductListRequest) (*dto.ProductListResponse, error) {
	filter := repositories.ProductFilter{
		Category: req.Category,
		Search:   req.Search,
		Sort:     req.Sort,
		Page:     req.Page,
		Limit:    req.Limit,
	}

	if req.Free != "" {
		free := req.Free == "true"
		filter.Free = &free
	}
	if req.Featured != "" {
		featured := req.Featured == "true"
		filter.Featured = &featured
	}

	products, total, err := svc.productRepo.List(filter)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to list products")
	}

	responses := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, MapProductResponse(&products[i]))
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return &dto.ProductListResponse{
		Products: responses,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (svc *ProductService) GetProductBySlug(slug string) (*dto.ProductResponse, error) {
	product, err := svc.productRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Product not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load product")
	}

	resp := MapProductResponse(product)
	return &resp, nil
}

func (svc *ProductService) GetCategories() ([]dto.CategoryResponse, error) {
	counts, err := svc.productRepo.CountByCategory()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load categories")
	}

	categories := make([]dto.CategoryResponse, 0, len(shared.Categories))
	for _, name := range shared.Categories {
		categories = append(categories, dto.CategoryResponse{
			Name:  name,
			Count: counts[name],
		})
	}
	return categories, nil
}

// ==================== ADMIN ====================

func (svc *ProductService) CreateProduct(req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, err := svc.productRepo.GetBySlug(req.Slug); err == nil {
		return nil, shared.NewConflictError(errors.New("slug taken"), "Slug is already in use")
	}

	product := &model.Product{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		IsFree:        req.IsFree || req.Price == 0,
		Category:      req.Category,
		Tags:          marshalList(req.Tags),
		FileURL:       req.FileURL,
		FileSize:      req.FileSize,
		PreviewImages: marshalList(req.PreviewImages),
		Thumbnail:     req.Thumbnail,
		Featured:      req.Featured,
	}

	product, err := svc.productRepo.Create(product)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to create product")
	}

	log.WithFields(log.Fields{"product_id": product.ID, "slug": product.Slug}).Info("Product created")

	resp := MapProductResponse(product)
	return &resp, nil
}

func (svc *ProductService) UpdateProduct(id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := svc.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Product not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load product")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.IsFree != nil {
		product.IsFree = *req.IsFree
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Tags != nil {
		product.Tags = marshalList(req.Tags)
	}
	if req.FileURL != nil {
		product.FileURL = *req.FileURL
	}
	if req.FileSize != nil {
		product.FileSize = *req.FileSize
	}
	if req.PreviewImages != nil {
		product.PreviewImages = marshalList(req.PreviewImages)
	}
	if req.Thumbnail != nil {
		product.Thumbnail = *req.Thumbnail
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}

	if err := svc.productRepo.Update(product); err != nil {
		return nil, shared.NewInternalError(err, "Failed to update product")
	}

	resp := MapProductResponse(product)
	return &resp, nil
}

func (svc *ProductService) DeleteProduct(id string) error {
	if _, err := svc.productRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError(err, "Product not found")
		}
		return shared.NewInternalError(err, "Failed to load product")
	}

	if err := svc.productRepo.Delete(id); err != nil {
		return shared.NewInternalError(err, "Failed to delete product")
	}

	log.WithFields(log.Fields{"product_id": id}).Info("Product deleted")
	return nil
}

func (svc *ProductService) SetThumbnail(id, url string) (*dto.ProductResponse, error) {
	return svc.UpdateProduct(id, dto.UpdateProductRequest{Thumbnail: &url})
}

func MapProductResponse(product *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            product.ID,
		Name:          product.Name,
		Slug:          product.Slug,
		Description:   product.Description,
		Price:         product.Price,
		IsFree:        product.IsFree,
		Category:      product.Category,
		Tags:          product.Tags,
		FileSize:      product.FileSize,
		PreviewImages: product.PreviewImages,
		Thumbnail:     product.Thumbnail,
		Downloads:     product.Downloads,
		Featured:      product.Featured,
		CreatedAt:     product.CreatedAt,
	}
}

func marshalList(values []string) json.RawMessage {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return raw
}
