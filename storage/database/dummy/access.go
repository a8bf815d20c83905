package dummydb

import (
	"context"

	"github.com/trezcool/kumbuka/core"
)

type accessChecker struct {
	db *grantTable
}

var _ core.AccessChecker = (*accessChecker)(nil) // interface compliance check

func NewAccessChecker(db *DB) core.AccessChecker {
	return &accessChecker{db: db.grant}
}

func (ac *accessChecker) HasCapability(ctx context.Context, userID int, c core.Context, cap core.Capability) (bool, error) {
	ac.db.RLock()
	defer ac.db.RUnlock()

	if ac.db.grants[grantKey{userID: userID, context: c, capability: cap}] {
		return true, nil
	}
	// system-level grants apply everywhere
	return ac.db.grants[grantKey{userID: userID, context: core.SystemContext(), capability: cap}], nil
}
