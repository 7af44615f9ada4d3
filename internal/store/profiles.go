// internal/store/profiles.go
package store

import (
	"context"
	"database/sql"
	stderrors "errors"

	"franchise-pos/internal/models"
)

// GetProfile returns the profile for accountID, or nil when none is stored.
func (s *Store) GetProfile(ctx context.Context, accountID string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(email, ''), COALESCE(franchise_id, ''), created_at
		FROM profiles
		WHERE id = $1`, accountID).Scan(&p.ID, &p.Email, &p.FranchiseID, &p.CreatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, queryError(ctx, models.QueryTypeProfileByAccount, err)
	}
	return &p, nil
}
