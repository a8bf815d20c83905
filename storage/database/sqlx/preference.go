package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kumbuka/core/preference"
)

type preferenceRepository struct {
	db *sqlx.DB
}

var _ preference.Repository = (*preferenceRepository)(nil) // interface compliance check

func NewPreferenceRepository(db *sql.DB, driverName string) *preferenceRepository {
	return &preferenceRepository{db: sqlx.NewDb(db, driverName)}
}

type preferenceRow struct {
	ID        string    `db:"id"`
	UserID    int       `db:"user_id"`
	UserLimit int       `db:"userlimit"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row preferenceRow) preference() preference.Preference {
	return preference.Preference{
		ID:        row.ID,
		UserID:    row.UserID,
		Limit:     row.UserLimit,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" err to preference.ErrNotFound
func (repo preferenceRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return preference.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo preferenceRepository) GetPreferenceByUserID(ctx context.Context, userID int) (preference.Preference, error) {
	var row preferenceRow
	err := repo.db.GetContext(
		ctx, &row,
		`SELECT id, user_id, userlimit, created_at, updated_at FROM user_preference WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return preference.Preference{}, repo.trapNoRowsErr(err, "getting preference")
	}
	return row.preference(), nil
}

func (repo preferenceRepository) QueryPreferencesByUserID(ctx context.Context, userID int) ([]preference.Preference, error) {
	var rows []preferenceRow
	err := repo.db.SelectContext(
		ctx, &rows,
		`SELECT id, user_id, userlimit, created_at, updated_at FROM user_preference WHERE user_id = $1 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying preferences")
	}

	prefs := make([]preference.Preference, 0, len(rows))
	for _, row := range rows {
		prefs = append(prefs, row.preference())
	}
	return prefs, nil
}

func (repo preferenceRepository) CreatePreference(ctx context.Context, pref preference.Preference) (preference.Preference, error) {
	pref.ID = uuid.New().String()
	_, err := repo.db.ExecContext(
		ctx,
		`INSERT INTO user_preference (id, user_id, userlimit, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		pref.ID, pref.UserID, pref.Limit, pref.CreatedAt, pref.UpdatedAt,
	)
	if err != nil {
		return preference.Preference{}, errors.Wrap(err, "inserting preference")
	}
	return pref, nil
}

func (repo preferenceRepository) UpdatePreference(ctx context.Context, pref preference.Preference) (preference.Preference, error) {
	_, err := repo.db.ExecContext(
		ctx,
		`UPDATE user_preference SET userlimit = $2, updated_at = $3 WHERE id = $1`,
		pref.ID, pref.Limit, pref.UpdatedAt,
	)
	if err != nil {
		return preference.Preference{}, errors.Wrap(err, "updating preference")
	}
	return pref, nil
}

func (repo preferenceRepository) DeletePreferencesByUserID(ctx context.Context, userID int) error {
	// deleting an absent row is a no-op; compliance calls rely on that
	_, err := repo.db.ExecContext(ctx, `DELETE FROM user_preference WHERE user_id = $1`, userID)
	return errors.Wrap(err, "deleting preferences")
}
