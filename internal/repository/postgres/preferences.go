package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/repository"
)

type preferencesRepository struct {
	db *sql.DB
}

func NewPreferencesRepository(db *sql.DB) repository.PreferencesRepository {
	return &preferencesRepository{db: db}
}

// Get loads the stored keys. Missing or unreadable values fall back to the
// defaults.
func (r *preferencesRepository) Get(ctx context.Context, adminID int64) (*domain.Preferences, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT pref_key, pref_value FROM admin_preferences WHERE admin_id = $1`, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := &domain.Preferences{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		switch key {
		case domain.PrefKeyDashboardCardOrder:
			var order []string
			if json.Unmarshal([]byte(value), &order) == nil {
				prefs.DashboardCardOrder = order
			}
		case domain.PrefKeySidebarCollapsed:
			prefs.SidebarCollapsed, _ = strconv.ParseBool(value)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	prefs.DashboardCardOrder = domain.NormalizeCardOrder(prefs.DashboardCardOrder)
	return prefs, nil
}

func (r *preferencesRepository) Save(ctx context.Context, adminID int64, prefs *domain.Preferences) error {
	order, err := json.Marshal(domain.NormalizeCardOrder(prefs.DashboardCardOrder))
	if err != nil {
		return fmt.Errorf("failed to encode card order: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO admin_preferences (admin_id, pref_key, pref_value) VALUES ($1, $2, $3)
	          ON CONFLICT (admin_id, pref_key) DO UPDATE SET pref_value = EXCLUDED.pref_value`
	values := [][2]string{
		{domain.PrefKeyDashboardCardOrder, string(order)},
		{domain.PrefKeySidebarCollapsed, strconv.FormatBool(prefs.SidebarCollapsed)},
	}
	for _, kv := range values {
		if _, err := tx.ExecContext(ctx, query, adminID, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return tx.Commit()
}
