// internal/tenancy/scope.go
package tenancy

import (
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/models"
)

// ScopeFranchise returns the franchise the identity may act on. Only central
// identities may name another franchise through override.
func ScopeFranchise(identity *models.Identity, override string) (string, error) {
	if identity == nil || identity.FranchiseID == "" {
		return "", errors.NewForbiddenError("no resolved identity")
	}

	requested := CanonicalID(override)
	if requested == "" || requested == identity.FranchiseID {
		return identity.FranchiseID, nil
	}
	if identity.IsCentral() {
		return requested, nil
	}
	return "", errors.NewTenancyViolationError(requested, identity.FranchiseID)
}
