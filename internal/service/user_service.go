package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ucao-academy/web-academy-api/internal/dto"
	"github.com/ucao-academy/web-academy-api/internal/models"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
)

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type userAuditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// UserService orchestrates admin user management.
type UserService struct {
	repo      userRepository
	audit     userAuditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, audit userAuditLogger, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns users visible to the actor. Institute admins only see users
// belonging to their own institute.
func (s *UserService) List(ctx context.Context, filter models.UserFilter, actor *models.JWTClaims) ([]models.User, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	if !actor.IsSuperAdmin() {
		filter.Institute = actor.Institute
	}
	if filter.Active == nil {
		// Soft-deleted accounts stay out of listings unless explicitly requested.
		active := true
		filter.Active = &active
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	return users, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a single user, enforcing institute scoping.
func (s *UserService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.User, error) {
	user, err := s.loadScoped(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create provisions a user account on behalf of an admin.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest, actor *models.JWTClaims) (*models.User, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	if req.Institute != nil && *req.Institute != "" && !models.ValidInstitute(*req.Institute) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown institute")
	}

	institute := req.Institute
	if !actor.IsSuperAdmin() {
		// Institute admins can only create users inside their own institute,
		// and admin accounts are minted by super admins alone.
		institute = actor.Institute
		if req.Role == models.RoleAdmin {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "creating admin accounts requires super admin")
		}
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	studentNumber := req.StudentNumber
	if req.Role == models.RoleStudent && studentNumber == nil {
		generated := generateStudentNumber()
		studentNumber = &generated
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Email:         req.Email,
		PasswordHash:  string(hash),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		Address:       req.Address,
		StudentNumber: studentNumber,
		Role:          req.Role,
		Institute:     institute,
		Verified:      true,
		Active:        true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.emitAudit(ctx, actor, models.AuditActionUserCreate, user.ID, nil, user)
	return user, nil
}

// Update edits a user. Nil request fields are left unchanged.
func (s *UserService) Update(ctx context.Context, id string, req dto.UpdateUserRequest, actor *models.JWTClaims) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	if req.Institute != nil && *req.Institute != "" && !models.ValidInstitute(*req.Institute) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown institute")
	}

	user, err := s.loadScoped(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	before := *user

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.StudentNumber != nil {
		user.StudentNumber = req.StudentNumber
	}
	if req.Role != nil && *req.Role != user.Role {
		if !actor.IsSuperAdmin() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "changing roles requires super admin")
		}
		user.Role = *req.Role
	}
	if req.Institute != nil {
		user.Institute = req.Institute
	}
	if req.Verified != nil {
		user.Verified = *req.Verified
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if !actor.IsSuperAdmin() && user.IsSuperAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot promote to unaffiliated admin")
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	s.emitAudit(ctx, actor, models.AuditActionUserUpdate, user.ID, &before, user)
	return user, nil
}

// Delete soft-deletes a user by marking it inactive.
func (s *UserService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor != nil && actor.UserID == id {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete own account")
	}
	user, err := s.loadScoped(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.emitAudit(ctx, actor, models.AuditActionUserDelete, user.ID, user, nil)
	return nil
}

func (s *UserService) loadScoped(ctx context.Context, id string, actor *models.JWTClaims) (*models.User, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if actor.UserID == id {
		return user, nil
	}
	if !actor.IsSuperAdmin() {
		if actor.Institute == nil || user.Institute == nil || *user.Institute != *actor.Institute {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "user belongs to another institute")
		}
	}
	return user, nil
}

func (s *UserService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID string, before, after *models.User) {
	if s.audit == nil {
		return
	}
	var oldBytes, newBytes []byte
	if before != nil {
		oldBytes, _ = json.Marshal(before)
	}
	if after != nil {
		newBytes, _ = json.Marshal(after)
	}
	var actorID *string
	if actor != nil && actor.UserID != "" {
		actorID = &actor.UserID
	}
	log := &models.AuditLog{
		UserID:     actorID,
		Action:     action,
		Resource:   "user",
		ResourceID: &resourceID,
		OldValues:  oldBytes,
		NewValues:  newBytes,
		IPAddress:  "system",
		UserAgent:  "user-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record user audit log", zap.Error(err))
	}
}

func generateStudentNumber() string {
	return fmt.Sprintf("UA-%d-%s", time.Now().UTC().Year(), uuid.NewString()[:8])
}
