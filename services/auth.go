package services

import (
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/printvault/printvault_api/dto"
	"github.com/printvault/printvault_api/model"
	"github.com/printvault/printvault_api/services/repositories"
	"github.com/printvault/printvault_api/shared"
)

// AuthService handles registration, login and the request-auth middleware.
// OptionalAuth exists for the download gate: it resolves an authenticated
// identity when a valid token is present but never rejects the request.
type AuthService struct {
	context.DefaultService

	sqlSvc   *SqlService
	jwtSvc   *JWTService
	emailSvc *EmailService

	userRepo *repositories.UserRepository
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.emailSvc = svc.Service(EMAIL_SVC).(*EmailService)
	svc.userRepo = repositories.NewUserRepository(svc.sqlSvc.Db())
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if _, err := svc.userRepo.GetByEmail(req.Email); err == nil {
		return nil, shared.NewConflictError(fmt.Errorf("email taken"), "Email is already registered")
	} else if err != gorm.ErrRecordNotFound {
		return nil, shared.NewInternalError(err, "Failed to check existing account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to hash password")
	}

	user := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hash),
		Role:     shared.RoleUser,
	}

	user, err = svc.userRepo.Create(user)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to create account")
	}

	log.WithFields(log.Fields{"user_id": user.ID, "email": user.Email}).Info("User registered")

	go func() {
		if err := svc.emailSvc.SendWelcomeEmail(user.Email, user.Name); err != nil {
			log.WithError(err).Warn("Failed to send welcome email")
		}
	}()

	return &dto.RegisterResponse{UserID: user.ID, Email: user.Email}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest, clientIP string) (*dto.LoginResponse, error) {
	user, err := svc.userRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.WithFields(log.Fields{"email": req.Email, "ip": clientIP}).Warn("Failed login attempt")
		return nil, shared.NewUnauthorizedError(err, "Invalid email or password")
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}

	if err := svc.userRepo.UpdateLastLogin(user.ID); err != nil {
		log.Printf("Failed to update last login for %s: %v", user.ID, err)
	}

	return &dto.LoginResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
		User:        mapUserInfo(user),
	}, nil
}

func (svc *AuthService) GetProfile(userID string) (*dto.UserInfo, error) {
	user, err := svc.userRepo.GetByID(userID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "User not found")
	}
	info := mapUserInfo(user)
	return &info, nil
}

func mapUserInfo(user *model.User) dto.UserInfo {
	return dto.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// ==================== MIDDLEWARE ====================

func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := svc.userFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}

		c.Locals(shared.UserID, user.ID)
		c.Locals(shared.UserRole, user.Role)
		return c.Next()
	}
}

// OptionalAuth never aborts; an invalid or missing token just leaves the
// request anonymous.
func (svc *AuthService) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			if user, err := svc.userFromHeader(authHeader); err == nil {
				c.Locals(shared.UserID, user.ID)
				c.Locals(shared.UserRole, user.Role)
			}
		}
		return c.Next()
	}
}

func (svc *AuthService) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, _ := c.Locals(shared.UserRole).(string)
		if userRole != role {
			return shared.ResponseForbidden(c)
		}
		return c.Next()
	}
}

func (svc *AuthService) userFromHeader(authHeader string) (*model.User, error) {
	token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
	if err != nil {
		return nil, err
	}

	userID, err := svc.jwtSvc.VerifyJWTToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT token")
	}
	if userID == "" {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	user, err := svc.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("unknown user")
	}
	return user, nil
}

// ==================== ADMIN ====================

func (svc *AuthService) AdminListUsers(page, limit int, search string) (*dto.UserListResponse, error) {
	users, total, err := svc.userRepo.List(page, limit, search)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to list users")
	}

	infos := make([]dto.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, mapUserInfo(&users[i]))
	}

	return &dto.UserListResponse{Users: infos, Total: total, Page: page, Limit: limit}, nil
}

func (svc *AuthService) AdminUpdateUserRole(userID, role string) (*dto.UserInfo, error) {
	if _, err := svc.userRepo.GetByID(userID); err != nil {
		return nil, shared.NewNotFoundError(err, "User not found")
	}

	user, err := svc.userRepo.UpdateRole(userID, role)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to update user")
	}

	info := mapUserInfo(user)
	return &info, nil
}

func (svc *AuthService) AdminDeleteUser(userID, actingUserID string) error {
	if userID == actingUserID {
		return shared.NewBadRequestError(fmt.Errorf("self deletion"), "Cannot delete your own account")
	}

	if _, err := svc.userRepo.GetByID(userID); err != nil {
		return shared.NewNotFoundError(err, "User not found")
	}

	if err := svc.userRepo.Delete(userID); err != nil {
		return shared.NewInternalError(err, "Failed to delete user")
	}

	log.WithFields(log.Fields{"user_id": userID, "deleted_by": actingUserID, "at": time.Now()}).
		Info("User deleted by admin")
	return nil
}
