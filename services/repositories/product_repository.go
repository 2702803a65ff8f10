package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printvault/printvault_api/model"
)

type ProductRepository struct {
	BaseRepository
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ProductFilter narrows List; zero values mean "no constraint".
type ProductFilter struct {
	Category string
	Free     *bool
	Featured *bool
	Search   string
	Sort     string
	Page     int
	Limit    int
}

func (ds *ProductRepository) GetByID(id string) (*model.Product, error) {
	var product model.Product
	if err := ds.db.Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (ds *ProductRepository) GetBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := ds.db.Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (ds *ProductRepository) List(filter ProductFilter) ([]model.Product, int64, error) {
	query := ds.db.Model(&model.Product{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Free != nil {
		query = query.Where("is_free = ?", *filter.Free)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ? OR tags LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "popular":
		query = query.Order("downloads DESC")
	case "price":
		query = query.Order("price ASC")
	default:
		query = query.Order("created_at DESC")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var products []model.Product
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (ds *ProductRepository) Create(product *model.Product) (*model.Product, error) {
	if product.ID == "" {
		id, _ := uuid.NewV7()
		product.ID = id.String()
	}
	if err := ds.db.Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (ds *ProductRepository) Update(product *model.Product) error {
	product.UpdatedAt = time.Now()
	return ds.db.Save(product).Error
}

func (ds *ProductRepository) Delete(id string) error {
	return ds.db.Where("id = ?", id).Delete(&model.Product{}).Error
}

// IncrementDownloads bumps the persistent counter without racing concurrent
// downloads of the same asset.
func (ds *ProductRepository) IncrementDownloads(id string) error {
	return ds.db.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
}

func (ds *ProductRepository) CountByCategory() (map[string]int64, error) {
	type row struct {
		Category string
		Count    int64
	}
	var rows []row
	err := ds.db.Model(&model.Product{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Category] = r.Count
	}
	return counts, nil
}

func (ds *ProductRepository) TopByDownloads(limit int) ([]model.Product, error) {
	var products []model.Product
	err := ds.db.Order("downloads DESC").Limit(limit).Find(&products).Error
	return products, err
}

func (ds *ProductRepository) Count() (int64, error) {
	var count int64
	err := ds.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (ds *ProductRepository) TotalDownloads() (int64, error) {
	var total int64
	err := ds.db.Model(&model.Product{}).
		Select("COALESCE(SUM(downloads), 0)").
		Scan(&total).Error
	return total, err
}
