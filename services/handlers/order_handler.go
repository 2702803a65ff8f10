package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/printvault/printvault_api/dto"
	"github.com/printvault/printvault_api/shared"
)

type OrderHandler struct {
	orderSvc OrderServiceInterface
}

func NewOrderHandler(orderSvc OrderServiceInterface) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// @Summary Checkout
// @Description Create a completed order for the products in the cart
// @Tags orders
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param checkoutRequest body dto.CheckoutRequest true "Cart items"
// @Success 201 {object} shared.Response{data=dto.OrderResponse}
// @Router /api/v1/orders [post]
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	userID := c.Locals(shared.UserID).(string)

	resp, err := h.orderSvc.Checkout(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Order completed", resp)
}

// @Summary List my orders
// @Description List the authenticated user's orders
// @Tags orders
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} shared.Response{data=dto.OrderListResponse}
// @Router /api/v1/orders [get]
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	resp, err := h.orderSvc.ListMine(userID, page, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get my order
// @Description Fetch one of the authenticated user's orders
// @Tags orders
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param orderId path string true "Order ID"
// @Success 200 {object} shared.Response{data=dto.OrderResponse}
// @Router /api/v1/orders/{orderId} [get]
func (h *OrderHandler) GetMine(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.orderSvc.GetMine(userID, c.Params("orderId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
