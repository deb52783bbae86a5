package service

import (
	"errors"

	"stockroom/internal/apierror"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/pkg/jwt"
	"stockroom/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(req *LoginRequest) (string, *model.User, error)
	Me(userID uuid.UUID) (*model.UserResponse, error)
	UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*model.User, error)
	ChangePassword(userID uuid.UUID, req *ChangePasswordRequest) error
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(req *LoginRequest) (string, *model.User, error) {
	if err := validator.Struct(req); err != nil {
		return "", nil, err
	}

	badCredentials := apierror.NewValidation().Add("email", "these credentials do not match our records")

	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, badCredentials
		}
		return "", nil, err
	}
	if !user.CheckPassword(req.Password) {
		return "", nil, badCredentials
	}
	if !user.IsActive {
		return "", nil, apierror.NewValidation().Add("email", "this account has been suspended")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, user.RoleCode(), user.PermissionCodes())
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("user", user.Email).Msg("user logged in")
	return token, user, nil
}

func (s *authService) Me(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apierror.NotFound("user")
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*model.User, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apierror.NotFound("user")
	}
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.UpdatedBy = user.Email
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) ChangePassword(userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := validator.Struct(req); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apierror.NotFound("user")
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return apierror.NewValidation().Add("current_password", "current password is incorrect")
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(userID, user.Password)
}
