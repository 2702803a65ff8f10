package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/printvault/printvault_api/docs"
	"github.com/printvault/printvault_api/services/handlers"
	"github.com/printvault/printvault_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc       *AuthService
	productSvc    *ProductService
	orderSvc      *OrderService
	downloadSvc   *DownloadService
	mediaSvc      *MediaService
	rateLimitSvc  *RateLimitService
	monitoringSvc *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.productSvc = svc.Service(PRODUCT_SVC).(*ProductService)
	svc.orderSvc = svc.Service(ORDER_SVC).(*OrderService)
	svc.downloadSvc = svc.Service(DOWNLOAD_SVC).(*DownloadService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	app := fiber.New(fiber.Config{
		AppName:      "PrintVault API",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		BodyLimit:    2 << 30,
		ErrorHandler: svc.errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders: "X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, Retry-After",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	authHandler := handlers.NewAuthHandler(svc.authSvc)
	productHandler := handlers.NewProductHandler(svc.productSvc)
	orderHandler := handlers.NewOrderHandler(svc.orderSvc)
	downloadHandler := handlers.NewDownloadHandler(svc.downloadSvc)
	adminHandler := handlers.NewAdminHandler(svc.authSvc, svc.productSvc, svc.orderSvc, svc.mediaSvc, svc.rateLimitSvc)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	// Auth
	v1.Post("/register", authHandler.Register)
	v1.Post("/login", authHandler.Login)
	v1.Get("/me", svc.authSvc.RequiredAuth(), authHandler.Me)

	// Catalog
	v1.Get("/products", productHandler.List)
	v1.Get("/products/:slug", productHandler.GetBySlug)
	v1.Get("/categories", productHandler.Categories)

	// Orders
	v1.Post("/orders", svc.authSvc.RequiredAuth(), orderHandler.Checkout)
	v1.Get("/orders", svc.authSvc.RequiredAuth(), orderHandler.ListMine)
	v1.Get("/orders/:orderId", svc.authSvc.RequiredAuth(), orderHandler.GetMine)

	// Download gate. OptionalAuth so anonymous users can fetch free
	// models under the anonymous budget.
	v1.Get("/download/:productId", svc.authSvc.OptionalAuth(), downloadHandler.Download)

	// Admin
	admin := v1.Group("/admin", svc.authSvc.RequiredAuth(), svc.authSvc.RequireRole(shared.RoleAdmin))
	admin.Post("/products", adminHandler.CreateProduct)
	admin.Put("/products/:productId", adminHandler.UpdateProduct)
	admin.Patch("/products/:productId", adminHandler.UpdateProduct)
	admin.Delete("/products/:productId", adminHandler.DeleteProduct)
	admin.Post("/products/:productId/thumbnail", adminHandler.UploadThumbnail)
	admin.Post("/media/models", adminHandler.UploadModelFile)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:userId", adminHandler.UpdateUserRole)
	admin.Patch("/users/:userId", adminHandler.UpdateUserRole)
	admin.Delete("/users/:userId", adminHandler.DeleteUser)
	admin.Get("/orders", adminHandler.ListOrders)
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/rate-limits", adminHandler.RateLimitStats)
	admin.Delete("/rate-limits/:identity", adminHandler.ResetRateLimit)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app

	log.WithField("port", svc.port).Info("HTTP server starting")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= 500 {
			log.WithError(appErr.Err).WithFields(log.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Error(appErr.Message)
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
