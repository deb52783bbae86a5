package service

import (
	"errors"
	"fmt"

	"stockroom/internal/apierror"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	GetAll() ([]model.UserResponse, error)
	GetByID(id uuid.UUID) (*model.UserResponse, error)
	Create(req *CreateUserRequest, creator string) (*model.User, error)
	Update(id uuid.UUID, req *UpdateUserRequest, updater string) (*model.User, error)
	Delete(id uuid.UUID) error
	ToggleStatus(id uuid.UUID, updater string) (*model.User, error)
	SyncPermissions(id uuid.UUID, codes []string, updater string) (*model.User, error)
}

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	RoleID      uint   `json:"role_id" validate:"required"`
}

// UpdateUserRequest updates a user. An empty password leaves the stored hash
// unchanged; it is a no-op, not a validation error.
type UpdateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"omitempty,min=8"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	RoleID      uint   `json:"role_id" validate:"required"`
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	permRepo repository.PermissionRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, permRepo repository.PermissionRepository) UserService {
	return &userService{userRepo: userRepo, roleRepo: roleRepo, permRepo: permRepo}
}

func (s *userService) GetAll() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("user")
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Create(req *CreateUserRequest, creator string) (*model.User, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, apierror.NewValidation().Add("email", "email already exists")
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("role")
		}
		return nil, err
	}

	user := &model.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      &role.ID,
		IsActive:    true,
	}
	user.CreatedBy = creator
	user.UpdatedBy = creator
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (s *userService) Update(id uuid.UUID, req *UpdateUserRequest, updater string) (*model.User, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("user")
	}

	if req.Email != user.Email {
		if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
			return nil, apierror.NewValidation().Add("email", "email already exists")
		}
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("role")
		}
		return nil, err
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.RoleID = &role.ID
	user.UpdatedBy = updater
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (s *userService) Delete(id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return apierror.NotFound("user")
	}
	return s.userRepo.Delete(id)
}

func (s *userService) ToggleStatus(id uuid.UUID, updater string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("user")
	}
	user.IsActive = !user.IsActive
	user.UpdatedBy = updater
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SyncPermissions replaces the user's direct grants with the given codes,
// atomically with the audit update.
func (s *userService) SyncPermissions(id uuid.UUID, codes []string, updater string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("user")
	}

	permissions, err := s.permRepo.FindByCodes(codes)
	if err != nil {
		return nil, err
	}
	if len(permissions) != len(codes) {
		known := make(map[string]bool, len(permissions))
		for _, p := range permissions {
			known[p.Code] = true
		}
		verr := apierror.NewValidation()
		for i, code := range codes {
			if !known[code] {
				verr.Addf(fmt.Sprintf("permissions.%d", i), "unknown permission %q", code)
			}
		}
		return nil, verr
	}

	err = s.userRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.SyncPermissions(tx, user, permissions); err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", id).Update("updated_by", updater).Error
	})
	if err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(id)
}
