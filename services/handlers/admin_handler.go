package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/printvault/printvault_api/dto"
	"github.com/printvault/printvault_api/shared"
)

type AdminHandler struct {
	authSvc      AuthServiceInterface
	productSvc   ProductServiceInterface
	orderSvc     OrderServiceInterface
	mediaSvc     MediaServiceInterface
	rateLimitSvc RateLimitServiceInterface
}

func NewAdminHandler(authSvc AuthServiceInterface, productSvc ProductServiceInterface, orderSvc OrderServiceInterface, mediaSvc MediaServiceInterface, rateLimitSvc RateLimitServiceInterface) *AdminHandler {
	return &AdminHandler{
		authSvc:      authSvc,
		productSvc:   productSvc,
		orderSvc:     orderSvc,
		mediaSvc:     mediaSvc,
		rateLimitSvc: rateLimitSvc,
	}
}

// ==================== PRODUCTS ====================

// @Summary Create product
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param createProductRequest body dto.CreateProductRequest true "Product details"
// @Success 201 {object} shared.Response{data=dto.ProductResponse}
// @Router /api/v1/admin/products [post]
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.productSvc.CreateProduct(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Product created", resp)
}

// @Summary Update product
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param productId path string true "Product ID"
// @Param updateProductRequest body dto.UpdateProductRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.ProductResponse}
// @Router /api/v1/admin/products/{productId} [put]
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	resp, err := h.productSvc.UpdateProduct(c.Params("productId"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Product updated", resp)
}

// @Summary Delete product
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param productId path string true "Product ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/products/{productId} [delete]
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productSvc.DeleteProduct(c.Params("productId")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Product deleted", nil)
}

// @Summary Upload model file
// @Description Upload a printable model file and receive its storage path for use as a product's file_url
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param file formData file true "Model file (STL, OBJ, FBX, BLEND, ZIP)"
// @Success 201 {object} shared.Response{data=dto.MediaUploadResponse}
// @Router /api/v1/admin/media/models [post]
func (h *AdminHandler) UploadModelFile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "No file provided")
	}

	resp, err := h.mediaSvc.UploadModelFile(file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "File uploaded", resp)
}

// @Summary Upload product thumbnail
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param productId path string true "Product ID"
// @Param file formData file true "Image file (JPG, PNG, WEBP)"
// @Success 200 {object} shared.Response{data=dto.ProductResponse}
// @Router /api/v1/admin/products/{productId}/thumbnail [post]
func (h *AdminHandler) UploadThumbnail(c *fiber.Ctx) error {
	productID := c.Params("productId")

	file, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "No file provided")
	}

	upload, err := h.mediaSvc.UploadThumbnail(productID, file)
	if err != nil {
		return err
	}

	resp, err := h.productSvc.SetThumbnail(productID, upload.URL)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Thumbnail updated", resp)
}

// ==================== USERS ====================

// @Summary List users
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Search by email or name"
// @Success 200 {object} shared.Response{data=dto.UserListResponse}
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	search := c.Query("search")

	resp, err := h.authSvc.AdminListUsers(page, limit, search)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Update user role
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param userId path string true "User ID"
// @Param updateUserRequest body dto.AdminUpdateUserRequest true "New role"
// @Success 200 {object} shared.Response{data=dto.UserInfo}
// @Router /api/v1/admin/users/{userId} [put]
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	var req dto.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.authSvc.AdminUpdateUserRole(c.Params("userId"), req.Role)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "User updated", resp)
}

// @Summary Delete user
// @Description Delete a user account. Admins cannot delete their own account.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param userId path string true "User ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/users/{userId} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	actingUserID := c.Locals(shared.UserID).(string)

	if err := h.authSvc.AdminDeleteUser(c.Params("userId"), actingUserID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "User deleted", nil)
}

// ==================== ORDERS / STATS ====================

// @Summary List orders
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param status query string false "Status filter"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} shared.Response{data=dto.OrderListResponse}
// @Router /api/v1/admin/orders [get]
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	status := c.Query("status")

	resp, err := h.orderSvc.AdminListOrders(status, page, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Marketplace stats
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Success 200 {object} shared.Response{data=dto.AdminStatsResponse}
// @Router /api/v1/admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	resp, err := h.orderSvc.AdminStats()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// ==================== RATE LIMITS ====================

// @Summary Download limiter stats
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Success 200 {object} shared.Response{data=dto.DownloadsStatsResponse}
// @Router /api/v1/admin/rate-limits [get]
func (h *AdminHandler) RateLimitStats(c *fiber.Ctx) error {
	resp := h.rateLimitSvc.Stats()
	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Reset a rate-limit identity
// @Description Clear the download budget for one identity (user ID or client address)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param identity path string true "Rate-limit identity"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/rate-limits/{identity} [delete]
func (h *AdminHandler) ResetRateLimit(c *fiber.Ctx) error {
	if err := h.rateLimitSvc.Reset(c.Params("identity")); err != nil {
		return shared.NewInternalError(err, "Failed to reset rate limit")
	}

	return shared.ResponseJSON(c, http.StatusOK, "Rate limit reset", nil)
}
