package authz

import (
	"testing"

	"stockroom/internal/apierror"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func staffPrincipal(permissions ...string) *Principal {
	return &Principal{
		ID:          uuid.New(),
		Email:       "staff@example.com",
		RoleCode:    model.RoleStaff,
		Permissions: permissions,
	}
}

func TestAuthorize(t *testing.T) {
	svc := New()

	assert.NoError(t, svc.Authorize(staffPrincipal("products.view"), "products.view"))
	assert.ErrorIs(t, svc.Authorize(staffPrincipal("products.view"), "products.delete"), apierror.Denied)
	assert.ErrorIs(t, svc.Authorize(staffPrincipal(), "products.view"), apierror.Denied)
	assert.ErrorIs(t, svc.Authorize(nil, "products.view"), apierror.Denied)
}

func TestAuthorizeAdminBypass(t *testing.T) {
	svc := New()
	admin := &Principal{ID: uuid.New(), RoleCode: model.RoleAdmin}

	assert.NoError(t, svc.Authorize(admin, "products.delete"))
	assert.NoError(t, svc.Authorize(admin, "anything.at-all"))
}

func TestAuthorizeOrSelf(t *testing.T) {
	svc := New()
	p := staffPrincipal()

	// Own resource needs no grant.
	assert.NoError(t, svc.AuthorizeOrSelf(p, p.ID, "users.view"))
	assert.ErrorIs(t, svc.AuthorizeOrSelf(p, uuid.New(), "users.view"), apierror.Denied)
	assert.NoError(t, svc.AuthorizeOrSelf(staffPrincipal("users.view"), uuid.New(), "users.view"))
	assert.ErrorIs(t, svc.AuthorizeOrSelf(nil, uuid.New(), "users.view"), apierror.Denied)
}

func TestAuthorizeNotSelf(t *testing.T) {
	svc := New()
	p := staffPrincipal("users.delete")

	// Self-targeting is denied even with the grant.
	assert.ErrorIs(t, svc.AuthorizeNotSelf(p, p.ID, "users.delete"), apierror.Denied)
	assert.NoError(t, svc.AuthorizeNotSelf(p, uuid.New(), "users.delete"))

	admin := &Principal{ID: uuid.New(), RoleCode: model.RoleAdmin}
	assert.ErrorIs(t, svc.AuthorizeNotSelf(admin, admin.ID, "users.delete"), apierror.Denied)
}
