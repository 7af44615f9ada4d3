// internal/models/franchise.go
package models

import "time"

const (
	FranchisePrefix    = "FR-"
	CentralBase        = "CENTRAL"
	CentralFranchiseID = FranchisePrefix + CentralBase

	RouteCentralDashboard = "/central/dashboard"
	RouteAdminDashboard   = "/admin/dashboard"
)

// AccountKind is the role an account plays within its franchise.
type AccountKind string

const (
	KindStore   AccountKind = "store"
	KindAdmin   AccountKind = "admin"
	KindCentral AccountKind = "central"
)

// IdentitySource records where a franchise id was resolved from.
type IdentitySource string

const (
	SourceProfile IdentitySource = "profile"
	SourceEmail   IdentitySource = "email"
)

// Profile is the stored account to franchise relation.
type Profile struct {
	ID          string    `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	FranchiseID string    `json:"franchiseId" db:"franchise_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Identity is a resolved account: its franchise and landing route.
type Identity struct {
	AccountID      string         `json:"accountId"`
	Email          string         `json:"email"`
	FranchiseID    string         `json:"franchiseId"`
	DashboardRoute string         `json:"dashboardRoute"`
	Kind           AccountKind    `json:"kind"`
	Source         IdentitySource `json:"source"`
}

func (i *Identity) IsCentral() bool {
	return i.Kind == KindCentral
}

// CanManage reports whether the identity may administer accounts.
func (i *Identity) CanManage() bool {
	return i.Kind == KindAdmin || i.Kind == KindCentral
}
