package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an authenticated principal. Permissions reach a user either through
// their role or as direct grants; the predicate in internal/authz unions both.
type User struct {
	BaseModel
	Email       string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password    string       `gorm:"type:varchar(255);not null" json:"-"`
	FullName    string       `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	PhoneNumber string       `gorm:"type:varchar(20)" json:"phone_number"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`
	VerifiedAt  *time.Time   `json:"verified_at,omitempty"`
	RoleID      *uint        `gorm:"index" json:"role_id"`
	Role        *Role        `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Permissions []Permission `gorm:"many2many:user_permissions;" json:"permissions,omitempty"`
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// PermissionCodes returns every permission code reachable by this user:
// direct grants plus the grants of the assigned role, deduplicated.
func (u *User) PermissionCodes() []string {
	seen := make(map[string]bool)
	var codes []string
	add := func(perms []Permission) {
		for _, p := range perms {
			if !seen[p.Code] {
				seen[p.Code] = true
				codes = append(codes, p.Code)
			}
		}
	}
	add(u.Permissions)
	if u.Role != nil {
		add(u.Role.Permissions)
	}
	return codes
}

// RoleCode returns the assigned role's code, or "" when no role is set.
func (u *User) RoleCode() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Code
}

// UserResponse strips credentials for API responses.
type UserResponse struct {
	ID          uuid.UUID    `json:"id"`
	Email       string       `json:"email"`
	FullName    string       `json:"full_name"`
	PhoneNumber string       `json:"phone_number"`
	IsActive    bool         `json:"is_active"`
	VerifiedAt  *time.Time   `json:"verified_at,omitempty"`
	RoleID      *uint        `json:"role_id,omitempty"`
	Role        *Role        `json:"role,omitempty"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
		VerifiedAt:  u.VerifiedAt,
		RoleID:      u.RoleID,
		Role:        u.Role,
		Permissions: u.Permissions,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
