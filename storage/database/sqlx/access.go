package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kumbuka/core"
)

// accessChecker answers capability checks against the host platform's
// computed capability_grant table. A system-level grant applies in every
// context.
type accessChecker struct {
	db *sqlx.DB
}

var _ core.AccessChecker = (*accessChecker)(nil) // interface compliance check

func NewAccessChecker(db *sql.DB, driverName string) *accessChecker {
	return &accessChecker{db: sqlx.NewDb(db, driverName)}
}

func (ac accessChecker) HasCapability(ctx context.Context, userID int, c core.Context, cap core.Capability) (bool, error) {
	var has bool
	err := ac.db.GetContext(
		ctx, &has,
		`SELECT EXISTS(
            SELECT 1
            FROM capability_grant
            WHERE user_id = $1
              AND capability = $2
              AND ((context_level = $3 AND instance_id = $4) OR context_level = $5)
        )`,
		userID, cap, c.Level, c.InstanceID, core.ContextSystem,
	)
	if err != nil {
		return false, errors.Wrap(err, "checking capability")
	}
	return has, nil
}
