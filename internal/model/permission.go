package model

// Permission is a named capability that can be granted to a role or directly
// to a user. Codes are dotted resource.action strings, e.g. "templates.delete".
type Permission struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(128)" json:"name"`
}

// DefaultPermissions is seeded at boot.
var DefaultPermissions = []Permission{
	// User management
	{Code: "users.view", Name: "View Users"},
	{Code: "users.create", Name: "Create User"},
	{Code: "users.update", Name: "Update User"},
	{Code: "users.delete", Name: "Delete User"},
	{Code: "users.toggle-status", Name: "Activate / Suspend User"},
	{Code: "users.sync-permissions", Name: "Sync User Permissions"},
	// Role management
	{Code: "roles.view", Name: "View Roles"},
	{Code: "roles.create", Name: "Create Role"},
	{Code: "roles.update", Name: "Update Role"},
	{Code: "roles.delete", Name: "Delete Role"},
	// Product management
	{Code: "products.view", Name: "View Products"},
	{Code: "products.create", Name: "Create Product"},
	{Code: "products.update", Name: "Update Product"},
	{Code: "products.delete", Name: "Delete Product"},
	{Code: "products.restore", Name: "Restore Product"},
	{Code: "products.force-delete", Name: "Permanently Delete Product"},
	// Templates
	{Code: "templates.view", Name: "View Templates"},
	{Code: "templates.create", Name: "Create Template"},
	{Code: "templates.update", Name: "Update Template"},
	{Code: "templates.set-active", Name: "Set Active Template"},
	{Code: "templates.delete", Name: "Delete Template"},
	{Code: "templates.restore", Name: "Restore Template"},
	{Code: "templates.force-delete", Name: "Permanently Delete Template"},
	// Stock records
	{Code: "stock-ins.view", Name: "View Stock-In Records"},
	{Code: "stock-ins.create", Name: "Create Stock-In Record"},
	{Code: "stock-ins.update", Name: "Update Stock-In Record"},
	{Code: "stock-ins.delete", Name: "Delete Stock-In Record"},
	{Code: "stock-ins.submit", Name: "Submit Stock-In Record"},
	{Code: "stock-outs.view", Name: "View Stock-Out Records"},
	{Code: "stock-outs.create", Name: "Create Stock-Out Record"},
	{Code: "stock-outs.update", Name: "Update Stock-Out Record"},
	{Code: "stock-outs.delete", Name: "Delete Stock-Out Record"},
	{Code: "stock-outs.submit", Name: "Submit Stock-Out Record"},
	// Reports
	{Code: "reports.view", Name: "View Reports"},
}
