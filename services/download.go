package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/printvault/printvault_api/dto"
	"github.com/printvault/printvault_api/model"
	"github.com/printvault/printvault_api/services/repositories"
	"github.com/printvault/printvault_api/shared"
)

// DownloadService is the gate in front of file serving. Every attempt runs
// the same fail-fast sequence: asset lookup, identity resolution, rate
// limit, entitlement, path/type validation, file existence, serve. Each
// step short-circuits; bookkeeping only happens after a successful serve
// and never fails the response.
type DownloadService struct {
	context.DefaultService

	sqlSvc       *SqlService
	rateLimitSvc *RateLimitService
	storageSvc   *StorageService

	productRepo  *repositories.ProductRepository
	orderRepo    *repositories.OrderRepository
	downloadRepo *repositories.DownloadRepository
}

const DOWNLOAD_SVC = "download_svc"

func (svc DownloadService) Id() string {
	return DOWNLOAD_SVC
}

func (svc *DownloadService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *DownloadService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.storageSvc = svc.Service(STORAGE_SVC).(*StorageService)

	db := svc.sqlSvc.Db()
	svc.productRepo = repositories.NewProductRepository(db)
	svc.orderRepo = repositories.NewOrderRepository(db)
	svc.downloadRepo = repositories.NewDownloadRepository(db)
	return nil
}

// ResolveIdentity picks exactly one rate-limit identity per request. The
// authenticated account id always wins; otherwise the first forwarded
// address, then the real-address header, then the literal fallback.
func (svc *DownloadService) ResolveIdentity(req dto.DownloadRequest) (string, bool) {
	if req.UserID != "" {
		return req.UserID, true
	}

	if req.ForwardedFor != "" {
		first := strings.TrimSpace(strings.Split(req.ForwardedFor, ",")[0])
		if first != "" {
			return first, false
		}
	}

	if req.RealIP != "" {
		return req.RealIP, false
	}

	return "unknown", false
}

// HasAccess is the entitlement check. Free assets are always entitled;
// paid assets require an authenticated identity with a completed order
// line. A query error propagates so the gate denies with an internal
// error, never an implicit allow.
func (svc *DownloadService) HasAccess(userID, productID string, isFree bool) (bool, error) {
	if isFree {
		return true, nil
	}
	if userID == "" {
		return false, nil
	}
	return svc.orderRepo.HasCompletedOrderItem(userID, productID)
}

func (svc *DownloadService) Evaluate(req dto.DownloadRequest) (*dto.DownloadResult, *dto.RateLimitInfo, error) {
	product, err := svc.productRepo.GetByID(req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, shared.NewNotFoundError(err, "Product not found")
		}
		return nil, nil, shared.NewInternalError(err, "Failed to load product")
	}

	identity, authenticated := svc.ResolveIdentity(req)

	info, err := svc.rateLimitSvc.Check(identity, authenticated)
	if err != nil {
		return nil, nil, shared.NewInternalError(err, "Rate limit check failed")
	}

	if !info.Allowed {
		svc.recordOutcome(product.ID, identity, authenticated, model.DownloadOutcomeRateLimited)
		RecordDownloadDenied("rate_limited")

		retryAfter := int(time.Until(info.ResetTime).Seconds())
		if retryAfter < 0 {
			retryAfter = 0
		}
		return nil, &info, shared.NewTooManyRequestsError(
			fmt.Errorf("identity %s exhausted budget", identity),
			"Too many downloads. Please try again later.",
		).WithData(dto.RateLimitExceeded{
			ResetTime:  info.ResetTime.UTC().Format(time.RFC3339),
			RetryAfter: retryAfter,
		})
	}

	hasAccess, err := svc.HasAccess(req.UserID, product.ID, product.IsFree)
	if err != nil {
		return nil, &info, shared.NewInternalError(err, "Failed to verify purchase")
	}
	if !hasAccess {
		svc.recordOutcome(product.ID, identity, authenticated, model.DownloadOutcomeDenied)
		RecordDownloadDenied("unentitled")

		message := "Please purchase this product to download"
		if product.IsFree {
			message = "Please sign in to download"
		}
		return nil, &info, shared.NewForbiddenError(fmt.Errorf("no entitlement for %s", product.ID), message)
	}

	absPath, contentType, err := svc.storageSvc.ValidateDownloadPath(product.FileURL)
	if err != nil {
		// Security event: the stored path resolves outside the root or
		// carries a disallowed extension. Log the detail server-side only.
		log.WithFields(log.Fields{
			"product_id": product.ID,
			"identity":   identity,
			"error":      err.Error(),
		}).Warn("Download path validation failed")

		svc.recordOutcome(product.ID, identity, authenticated, model.DownloadOutcomeInvalidPath)
		RecordDownloadDenied("invalid_path")
		return nil, &info, shared.NewBadRequestError(nil, "Invalid file request")
	}

	if !svc.storageSvc.Exists(absPath) {
		// Missing files are an operational anomaly, not a client error.
		log.WithFields(log.Fields{
			"product_id": product.ID,
			"path":       absPath,
		}).Error("Product file missing from storage")

		svc.recordOutcome(product.ID, identity, authenticated, model.DownloadOutcomeMissing)
		RecordDownloadDenied("missing_file")
		return nil, &info, shared.NewNotFoundError(nil, "File not found")
	}

	data, err := svc.storageSvc.ReadFile(absPath)
	if err != nil {
		return nil, &info, shared.NewInternalError(err, "Failed to read file")
	}

	fileName := product.Slug + strings.ToLower(filepath.Ext(absPath))

	// Bookkeeping is fire-and-forget relative to the committed response.
	go svc.recordServe(product, identity, authenticated)

	return &dto.DownloadResult{
		Data:        data,
		FileName:    fileName,
		ContentType: contentType,
		RateLimit:   info,
	}, &info, nil
}

func (svc *DownloadService) recordServe(product *model.Product, identity string, authenticated bool) {
	if err := svc.productRepo.IncrementDownloads(product.ID); err != nil {
		log.Printf("Failed to increment download counter for %s: %v", product.ID, err)
	}

	svc.recordOutcome(product.ID, identity, authenticated, model.DownloadOutcomeServed)
	RecordDownloadServed()

	log.WithFields(log.Fields{
		"product_id":    product.ID,
		"product":       product.Name,
		"identity":      identity,
		"authenticated": authenticated,
		"outcome":       model.DownloadOutcomeServed,
	}).Info("Download served")
}

func (svc *DownloadService) recordOutcome(productID, identity string, authenticated bool, outcome string) {
	entry := &model.DownloadLog{
		ProductID:     productID,
		Identity:      identity,
		Authenticated: authenticated,
		Outcome:       outcome,
	}
	if err := svc.downloadRepo.CreateLog(entry); err != nil {
		log.Printf("Failed to write download log: %v", err)
	}
}
