// Package authz holds the authorization predicate. It is injected wherever a
// decision is needed; there is no ambient or global lookup. Every check
// evaluates the principal built from the current request's freshly loaded
// user row, so revoked grants take effect immediately.
package authz

import (
	"stockroom/internal/apierror"
	"stockroom/internal/model"

	"github.com/google/uuid"
)

// Principal is the acting user as seen by authorization decisions.
type Principal struct {
	ID          uuid.UUID
	Email       string
	Name        string
	RoleCode    string
	Permissions []string
}

// FromUser builds a Principal from a loaded user row, flattening role and
// direct permission grants.
func FromUser(u *model.User) *Principal {
	return &Principal{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.FullName,
		RoleCode:    u.RoleCode(),
		Permissions: u.PermissionCodes(),
	}
}

type Service interface {
	// Authorize allows when the principal is an admin or holds the
	// permission (directly or via role). A nil principal always denies.
	Authorize(p *Principal, permission string) error
	// AuthorizeOrSelf applies the self-access override: acting on one's own
	// user resource is always allowed, otherwise the permission decides.
	AuthorizeOrSelf(p *Principal, target uuid.UUID, permission string) error
	// AuthorizeNotSelf denies self-targeted actions outright (lockout
	// prevention), otherwise the permission decides.
	AuthorizeNotSelf(p *Principal, target uuid.UUID, permission string) error
}

type service struct{}

func New() Service {
	return &service{}
}

func (s *service) Authorize(p *Principal, permission string) error {
	if p == nil {
		return apierror.Denied
	}
	if p.RoleCode == model.RoleAdmin {
		return nil
	}
	for _, code := range p.Permissions {
		if code == permission {
			return nil
		}
	}
	return apierror.Denied
}

func (s *service) AuthorizeOrSelf(p *Principal, target uuid.UUID, permission string) error {
	if p != nil && p.ID == target {
		return nil
	}
	return s.Authorize(p, permission)
}

func (s *service) AuthorizeNotSelf(p *Principal, target uuid.UUID, permission string) error {
	if p != nil && p.ID == target {
		return apierror.Denied
	}
	return s.Authorize(p, permission)
}
