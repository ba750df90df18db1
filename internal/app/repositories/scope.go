package repositories

import (
	"github.com/mertkaya/courselog/internal/app/auth"
	"github.com/mertkaya/courselog/internal/app/models"
)

// Scope is the compound filter applied to every repository query: the tenant
// the request resolved to, plus the caller's role and id for ownership and
// membership predicates. Documents outside the scope are indistinguishable
// from documents that don't exist.
type Scope struct {
	Tenant string
	Role   models.Role
	UserID int64
}

// ScopeFor builds a scope from an admitted principal. The middleware has
// already checked that the principal's tenant matches the resolved tenant.
func ScopeFor(p *auth.Principal) Scope {
	return Scope{
		Tenant: p.Tenant,
		Role:   p.Role,
		UserID: p.UserID,
	}
}
