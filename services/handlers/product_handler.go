package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/printvault/printvault_api/dto"
	"github.com/printvault/printvault_api/shared"
)

type ProductHandler struct {
	productSvc ProductServiceInterface
}

func NewProductHandler(productSvc ProductServiceInterface) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

// @Summary List products
// @Description Browse the model catalog with filtering, search and paging
// @Tags products
// @Produce json
// @Param category query string false "Category filter"
// @Param free query string false "Filter free models (true/false)"
// @Param featured query string false "Filter featured models (true/false)"
// @Param search query string false "Search in name and description"
// @Param sort query string false "Sort order (newest, popular, price_asc, price_desc)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} shared.Response{data=dto.ProductListResponse}
// @Router /api/v1/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var req dto.ProductListRequest
	if err := c.QueryParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid query parameters")
	}

	resp, err := h.productSvc.ListProducts(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get product by slug
// @Description Fetch a single model's public detail
// @Tags products
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} shared.Response{data=dto.ProductResponse}
// @Router /api/v1/products/{slug} [get]
func (h *ProductHandler) GetBySlug(c *fiber.Ctx) error {
	resp, err := h.productSvc.GetProductBySlug(c.Params("slug"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary List categories
// @Description List catalog categories with product counts
// @Tags products
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.CategoryResponse}
// @Router /api/v1/categories [get]
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	resp, err := h.productSvc.GetCategories()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
