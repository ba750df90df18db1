// Package auth holds the role-access policy: pure decisions over a decoded
// principal, no storage access.
package auth

import (
	"github.com/mertkaya/courselog/internal/app/models"
)

// Principal is the identity decoded from a validated session token.
type Principal struct {
	UserID   int64
	Username string
	Role     models.Role
	Tenant   string
}

// Admit reports whether the principal's role is in the allowed set. Matching
// is exact: there is no role hierarchy, so an endpoint that should accept
// admins as well must list admin explicitly.
func Admit(p *Principal, allowed ...models.Role) bool {
	if p == nil {
		return false
	}
	for _, role := range allowed {
		if p.Role == role {
			return true
		}
	}
	return false
}

// SameTenant reports whether the principal's issuing tenant matches the
// tenant resolved from the request. A role match never overrides a tenant
// mismatch; callers treat a false result as a distinct cross-tenant denial.
func SameTenant(p *Principal, resolvedTenant string) bool {
	return p != nil && p.Tenant == resolvedTenant
}
