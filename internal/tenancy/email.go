// internal/tenancy/email.go
package tenancy

import (
	"strings"

	"franchise-pos/internal/models"
)

const storeLocalPrefix = "store."

// FranchiseFromEmail derives a franchise id from the legacy alias encodings:
// store.<frid>@domain for store accounts and <local>+<frid>@domain for admins.
// It is a migration shim; stored profiles take precedence.
func FranchiseFromEmail(email string) (string, bool) {
	local, _, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || local == "" {
		return "", false
	}

	if isStoreLocal(local) {
		frid := local[len(storeLocalPrefix):]
		if frid == "" {
			return "", false
		}
		return strings.ToUpper(frid), true
	}

	if i := strings.LastIndex(local, "+"); i >= 0 {
		frid := local[i+1:]
		if frid == "" {
			return "", false
		}
		return strings.ToUpper(frid), true
	}

	return "", false
}

// IsStoreEmail reports whether email uses the store alias form.
func IsStoreEmail(email string) bool {
	local, _, ok := strings.Cut(strings.TrimSpace(email), "@")
	return ok && isStoreLocal(local) && len(local) > len(storeLocalPrefix)
}

func isStoreLocal(local string) bool {
	return strings.HasPrefix(strings.ToLower(local), storeLocalPrefix)
}

// NormalizeBase strips an optional FR- prefix and uppercases the rest.
func NormalizeBase(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	return strings.TrimPrefix(s, models.FranchisePrefix)
}

// CanonicalID returns the FR-<BASE> form of raw, or "" when raw has no base.
func CanonicalID(raw string) string {
	base := NormalizeBase(raw)
	if base == "" {
		return ""
	}
	return models.FranchisePrefix + base
}

// StoreEmail is the derived store account for a franchise, e.g.
// store.fr-9@pos.local.
func StoreEmail(franchiseID, domain string) string {
	return storeLocalPrefix + strings.ToLower(CanonicalID(franchiseID)) + "@" + domain
}

// DashboardRoute maps a franchise id to its landing route.
func DashboardRoute(franchiseID string) string {
	if NormalizeBase(franchiseID) == models.CentralBase {
		return models.RouteCentralDashboard
	}
	return models.RouteAdminDashboard
}
