package dto

import (
	"encoding/json"
	"time"
)

type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	Price         float64         `json:"price"`
	IsFree        bool            `json:"is_free"`
	Category      string          `json:"category"`
	Tags          json.RawMessage `json:"tags,omitempty"`
	FileSize      float64         `json:"file_size"`
	PreviewImages json.RawMessage `json:"preview_images,omitempty"`
	Thumbnail     string          `json:"thumbnail"`
	Downloads     int64           `json:"downloads"`
	Featured      bool            `json:"featured"`
	CreatedAt     time.Time       `json:"created_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type ProductListRequest struct {
	Category string `query:"category"`
	Free     string `query:"free"`
	Featured string `query:"featured"`
	Search   string `query:"search"`
	Sort     string `query:"sort"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=120"`
	Slug          string   `json:"slug" validate:"required,min=2,max=120"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" validate:"min=0"`
	IsFree        bool     `json:"is_free"`
	Category      string   `json:"category" validate:"required,oneof=FIGURES TOOLS TOYS GADGETS ART OTHER"`
	Tags          []string `json:"tags"`
	FileURL       string   `json:"file_url" validate:"required"`
	FileSize      float64  `json:"file_size"`
	PreviewImages []string `json:"preview_images"`
	Thumbnail     string   `json:"thumbnail"`
	Featured      bool     `json:"featured"`
}

func (r CreateProductRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateProductRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	IsFree        *bool    `json:"is_free,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	FileURL       *string  `json:"file_url,omitempty"`
	FileSize      *float64 `json:"file_size,omitempty"`
	PreviewImages []string `json:"preview_images,omitempty"`
	Thumbnail     *string  `json:"thumbnail,omitempty"`
	Featured      *bool    `json:"featured,omitempty"`
}

type CategoryResponse struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
