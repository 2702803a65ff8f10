package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/printvault/printvault_api/dto"
	"github.com/printvault/printvault_api/shared"
)

type DownloadHandler struct {
	downloadSvc DownloadServiceInterface
}

func NewDownloadHandler(downloadSvc DownloadServiceInterface) *DownloadHandler {
	return &DownloadHandler{downloadSvc: downloadSvc}
}

// @Summary Download a model file
// @Description Serve a product's model file. Anonymous users may download free models within the anonymous rate budget; paid models require a completed purchase.
// @Tags downloads
// @Produce octet-stream
// @Param Authorization header string false "User Bearer Token" default(Bearer <user_token>)
// @Param productId path string true "Product ID"
// @Success 200 {file} binary
// @Failure 403 {object} shared.Response
// @Failure 429 {object} shared.Response{data=dto.RateLimitExceeded}
// @Router /api/v1/download/{productId} [get]
func (h *DownloadHandler) Download(c *fiber.Ctx) error {
	req := dto.DownloadRequest{
		ProductID:    c.Params("productId"),
		ForwardedFor: c.Get("X-Forwarded-For"),
		RealIP:       c.Get("X-Real-IP"),
	}

	// OptionalAuth sets the local only when a valid token was presented.
	if userID, ok := c.Locals(shared.UserID).(string); ok {
		req.UserID = userID
	}

	result, info, err := h.downloadSvc.Evaluate(req)

	// The limiter's verdict travels on every response that reached it,
	// allowed or not, so clients can pace themselves.
	if info != nil {
		c.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}

	if err != nil {
		if appErr, ok := shared.GetAppError(err); ok && appErr.StatusCode == fiber.StatusTooManyRequests && info != nil {
			retryAfter := int(time.Until(info.ResetTime).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Set("Retry-After", strconv.Itoa(retryAfter))
		}
		return err
	}

	c.Set(fiber.HeaderContentType, result.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Set(fiber.HeaderCacheControl, "no-store, must-revalidate")
	c.Set("X-Content-Type-Options", "nosniff")

	return c.Send(result.Data)
}
