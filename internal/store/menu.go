// internal/store/menu.go
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/models"

	"github.com/google/uuid"
)

const menuColumns = `id, name, price, COALESCE(category, ''), franchise_id, COALESCE(created_by, ''), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMenuItem(row rowScanner) (*models.MenuItem, error) {
	var m models.MenuItem
	if err := row.Scan(&m.ID, &m.Name, &m.Price, &m.Category, &m.FranchiseID, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) ListMenu(ctx context.Context, franchiseID string) ([]models.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE franchise_id = $1
		ORDER BY category, name`, franchiseID)
	if err != nil {
		return nil, queryError(ctx, models.QueryTypeMenuList, err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, queryError(ctx, models.QueryTypeMenuList, err)
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, models.QueryTypeMenuList, err)
	}
	return items, nil
}

func (s *Store) GetMenuItem(ctx context.Context, franchiseID, id string) (*models.MenuItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE id = $1 AND franchise_id = $2`, id, franchiseID)
	m, err := scanMenuItem(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewMenuItemNotFoundError(id)
	}
	if err != nil {
		return nil, queryError(ctx, models.QueryTypeMenuGet, err)
	}
	return m, nil
}

// CreateMenuItem assigns an id and timestamps to item and inserts it.
func (s *Store) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	now := time.Now().UTC()
	item.ID = uuid.NewString()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO menu_items (id, name, price, category, franchise_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.Name, item.Price, item.Category, item.FranchiseID, nullString(item.CreatedBy), item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// UpdateMenuItem rewrites name, price and category of an existing item.
func (s *Store) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	item.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE menu_items
		SET name = $1, price = $2, category = $3, updated_at = $4
		WHERE id = $5 AND franchise_id = $6`,
		item.Name, item.Price, item.Category, item.UpdatedAt, item.ID, item.FranchiseID)
	if err != nil {
		return queryError(ctx, models.QueryTypeMenuWrite, err)
	}
	return expectOneRow(res, item.ID)
}

func (s *Store) DeleteMenuItem(ctx context.Context, franchiseID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM menu_items
		WHERE id = $1 AND franchise_id = $2`, id, franchiseID)
	if err != nil {
		return queryError(ctx, models.QueryTypeMenuWrite, err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError(string(models.QueryTypeMenuWrite), err)
	}
	if n == 0 {
		return errors.NewMenuItemNotFoundError(id)
	}
	return nil
}
