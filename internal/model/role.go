package model

// Role groups permissions. Each user holds a single role; the admin role
// bypasses permission checks entirely.
type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Code        string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string       `gorm:"type:varchar(100)" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// DefaultRoles is seeded at boot.
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full system access, bypasses permission checks",
	},
	{
		Code:        RoleStaff,
		Name:        "Warehouse Staff",
		Description: "Day-to-day stock operations",
	},
}
