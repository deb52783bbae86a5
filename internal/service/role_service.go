package service

import (
	"errors"

	"stockroom/internal/apierror"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/pkg/validator"

	"gorm.io/gorm"
)

type RoleService interface {
	GetAll() ([]model.Role, error)
	GetByID(id uint) (*model.Role, error)
	Create(req *RoleRequest) (*model.Role, error)
	Update(id uint, req *RoleRequest) (*model.Role, error)
	Delete(id uint) error
}

type RoleRequest struct {
	Code          string `json:"code" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	PermissionIDs []uint `json:"permission_ids"`
}

type roleService struct {
	roleRepo repository.RoleRepository
	permRepo repository.PermissionRepository
	userRepo repository.UserRepository
}

func NewRoleService(roleRepo repository.RoleRepository, permRepo repository.PermissionRepository, userRepo repository.UserRepository) RoleService {
	return &roleService{roleRepo: roleRepo, permRepo: permRepo, userRepo: userRepo}
}

func (s *roleService) GetAll() ([]model.Role, error) {
	return s.roleRepo.FindAll()
}

func (s *roleService) GetByID(id uint) (*model.Role, error) {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("role")
	}
	return role, nil
}

func (s *roleService) resolvePermissions(ids []uint) ([]model.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	permissions, err := s.permRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(permissions) != len(ids) {
		return nil, apierror.NewValidation().Add("permission_ids", "one or more permissions do not exist")
	}
	return permissions, nil
}

func (s *roleService) Create(req *RoleRequest) (*model.Role, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if existing, _ := s.roleRepo.FindByCode(req.Code); existing != nil {
		return nil, apierror.NewValidation().Add("code", "role code already exists")
	}

	permissions, err := s.resolvePermissions(req.PermissionIDs)
	if err != nil {
		return nil, err
	}

	role := &model.Role{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	}
	err = s.roleRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		return s.roleRepo.SyncPermissions(tx, role, permissions)
	})
	if err != nil {
		return nil, err
	}
	return s.roleRepo.FindByID(role.ID)
}

func (s *roleService) Update(id uint, req *RoleRequest) (*model.Role, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("role")
	}
	if req.Code != role.Code {
		if existing, _ := s.roleRepo.FindByCode(req.Code); existing != nil {
			return nil, apierror.NewValidation().Add("code", "role code already exists")
		}
	}

	permissions, err := s.resolvePermissions(req.PermissionIDs)
	if err != nil {
		return nil, err
	}

	role.Code = req.Code
	role.Name = req.Name
	role.Description = req.Description
	role.Permissions = nil // synced explicitly below, not via Save
	err = s.roleRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(role).Error; err != nil {
			return err
		}
		return s.roleRepo.SyncPermissions(tx, role, permissions)
	})
	if err != nil {
		return nil, err
	}
	return s.roleRepo.FindByID(role.ID)
}

func (s *roleService) Delete(id uint) error {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("role")
		}
		return err
	}
	if role.Code == model.RoleAdmin {
		return apierror.NewValidation().Add("role", "the admin role cannot be deleted")
	}
	count, err := s.userRepo.CountByRole(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apierror.NewValidation().Add("role", "role is still assigned to users")
	}
	return s.roleRepo.Delete(id)
}
