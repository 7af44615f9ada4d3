// internal/tenancy/resolver.go
package tenancy

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/metrics"
	"franchise-pos/internal/models"

	"github.com/redis/go-redis/v9"
)

const identityCachePrefix = "identity:"

// ProfileStore returns the stored profile for an account, or nil when there
// is none.
type ProfileStore interface {
	GetProfile(ctx context.Context, accountID string) (*models.Profile, error)
}

type Options struct {
	Profiles ProfileStore
	Cache    *redis.Client
	CacheTTL time.Duration
	Logger   logger.Logger
}

// Resolver maps an authenticated account to its franchise and landing route.
type Resolver struct {
	profiles ProfileStore
	cache    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewResolver(opts Options) *Resolver {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Resolver{
		profiles: opts.Profiles,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		logger:   log,
	}
}

func (r *Resolver) cacheEnabled() bool {
	return r.cache != nil && r.cacheTTL > 0
}

// Resolve looks up the account's profile and falls back to the email alias
// encodings. Neither source yielding an id is a FRANCHISE_ID_NOT_FOUND error.
func (r *Resolver) Resolve(ctx context.Context, account models.Account) (*models.Identity, error) {
	if account.ID == "" && account.Email == "" {
		return nil, errors.NewValidationError("account id or email is required")
	}

	if cached := r.fromCache(ctx, account.ID); cached != nil {
		return cached, nil
	}

	raw, source, err := r.lookup(ctx, account)
	if err != nil {
		return nil, err
	}

	canonical := CanonicalID(raw)
	if canonical == "" {
		return nil, errors.NewFranchiseIDNotFoundError(account.Email)
	}

	identity := &models.Identity{
		AccountID:      account.ID,
		Email:          account.Email,
		FranchiseID:    canonical,
		DashboardRoute: DashboardRoute(canonical),
		Kind:           kindOf(canonical, account.Email),
		Source:         source,
	}

	r.toCache(ctx, identity)
	return identity, nil
}

func (r *Resolver) lookup(ctx context.Context, account models.Account) (string, models.IdentitySource, error) {
	if account.ID != "" && r.profiles != nil {
		profile, err := r.profiles.GetProfile(ctx, account.ID)
		if err != nil {
			return "", "", err
		}
		if profile != nil && strings.TrimSpace(profile.FranchiseID) != "" {
			return profile.FranchiseID, models.SourceProfile, nil
		}
	}

	frid, ok := FranchiseFromEmail(account.Email)
	if !ok {
		return "", "", errors.NewFranchiseIDNotFoundError(account.Email)
	}
	r.logger.Debug("franchise id derived from email alias", map[string]interface{}{
		"accountId": account.ID,
	})
	return frid, models.SourceEmail, nil
}

func kindOf(franchiseID, email string) models.AccountKind {
	switch {
	case NormalizeBase(franchiseID) == models.CentralBase:
		return models.KindCentral
	case IsStoreEmail(email):
		return models.KindStore
	default:
		return models.KindAdmin
	}
}

// Invalidate drops a cached identity, e.g. after the account is deleted.
func (r *Resolver) Invalidate(ctx context.Context, accountID string) {
	if !r.cacheEnabled() || accountID == "" {
		return
	}
	if err := r.cache.Del(ctx, identityCachePrefix+accountID).Err(); err != nil {
		r.logger.Warn("identity cache invalidation failed", map[string]interface{}{
			"accountId": accountID,
			"error":     err.Error(),
		})
	}
}

func (r *Resolver) fromCache(ctx context.Context, accountID string) *models.Identity {
	if !r.cacheEnabled() || accountID == "" {
		return nil
	}

	val, err := r.cache.Get(ctx, identityCachePrefix+accountID).Result()
	if err != nil {
		if !stderrors.Is(err, redis.Nil) {
			r.logger.Warn("identity cache read failed", map[string]interface{}{"error": err.Error()})
		}
		metrics.CacheLookups.WithLabelValues("identity", "miss").Inc()
		return nil
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(val), &identity); err != nil {
		metrics.CacheLookups.WithLabelValues("identity", "miss").Inc()
		return nil
	}
	metrics.CacheLookups.WithLabelValues("identity", "hit").Inc()
	return &identity
}

func (r *Resolver) toCache(ctx context.Context, identity *models.Identity) {
	if !r.cacheEnabled() || identity.AccountID == "" {
		return
	}
	data, err := json.Marshal(identity)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, identityCachePrefix+identity.AccountID, data, r.cacheTTL).Err(); err != nil {
		r.logger.Warn("identity cache write failed", map[string]interface{}{"error": err.Error()})
	}
}
