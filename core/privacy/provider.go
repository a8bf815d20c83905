// Package privacy implements the data-privacy contract the host platform's
// compliance framework drives against this module. Every operation is
// synchronous and idempotent, and only ever touches the user_preference
// table; context/user approval happens upstream.
package privacy

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/kumbuka/core"
	"github.com/trezcool/kumbuka/core/preference"
)

// DisplayName labels exported data in the compliance report.
const DisplayName = "Recent Courses"

type (
	// Metadata documents what user data this module stores, for audit.
	Metadata struct {
		Table   string            `json:"table"`
		Fields  map[string]string `json:"fields"`
		Summary string            `json:"summary"`
	}

	// Record is one exported user_preference row.
	Record struct {
		User      int `json:"user"`
		UserLimit int `json:"userlimit"`
	}

	// Export is the data written out for one approved context.
	Export struct {
		Context core.Context `json:"context"`
		Path    []string     `json:"path"`
		Data    []Record     `json:"data"`
	}

	Provider struct {
		prefs preference.Repository
	}
)

func NewProvider(prefs preference.Repository) *Provider {
	return &Provider{prefs: prefs}
}

func (p *Provider) Metadata() Metadata {
	return Metadata{
		Table: "user_preference",
		Fields: map[string]string{
			"userid":    "The ID of the user who owns this preference.",
			"userlimit": "Maximum number of courses to display.",
		},
		Summary: "Per-user display limit of the recent courses block.",
	}
}

// ContextsForUser returns the contexts holding data about userID: at most
// their own personal context, and only while a preference row exists.
func (p *Provider) ContextsForUser(ctx context.Context, userID int) ([]core.Context, error) {
	_, err := p.prefs.GetPreferenceByUserID(ctx, userID)
	switch err {
	case nil:
		return []core.Context{core.UserContext(userID)}, nil
	case preference.ErrNotFound:
		return []core.Context{}, nil
	default:
		return nil, errors.Wrap(err, "locating contexts for user")
	}
}

// ExportUserData writes out userID's rows for the approved contexts.
// Contexts that are not the user's own personal context are ignored; with
// none left this is a no-op and returns no export.
func (p *Provider) ExportUserData(ctx context.Context, userID int, approved []core.Context) (*Export, error) {
	own, ok := firstUserContext(approved, userID)
	if !ok {
		return nil, nil
	}

	prefs, err := p.prefs.QueryPreferencesByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying preferences for export")
	}

	records := make([]Record, 0, len(prefs))
	for _, pref := range prefs {
		records = append(records, Record{User: pref.UserID, UserLimit: pref.Limit})
	}
	return &Export{Context: own, Path: []string{DisplayName}, Data: records}, nil
}

// DeleteAllInContext erases every row in the given context. Only personal
// user-contexts ever hold data here; anything else is a no-op.
func (p *Provider) DeleteAllInContext(ctx context.Context, c core.Context) error {
	if c.Level != core.ContextUser {
		return nil
	}
	return errors.Wrap(p.prefs.DeletePreferencesByUserID(ctx, c.InstanceID), "deleting preferences in context")
}

// DeleteForUser erases userID's row if any of the approved contexts is
// their own personal context.
func (p *Provider) DeleteForUser(ctx context.Context, userID int, approved []core.Context) error {
	if len(approved) == 0 {
		return nil
	}
	if _, ok := firstUserContext(approved, userID); !ok {
		return nil
	}
	return errors.Wrap(p.prefs.DeletePreferencesByUserID(ctx, userID), "deleting preferences for user")
}

// DeleteForUsers erases the row owned by the given context if its owner is
// in the approved user id list.
func (p *Provider) DeleteForUsers(ctx context.Context, c core.Context, userIDs []int) error {
	if c.Level != core.ContextUser {
		return nil
	}
	for _, id := range userIDs {
		if id == c.InstanceID {
			return errors.Wrap(p.prefs.DeletePreferencesByUserID(ctx, c.InstanceID), "deleting preferences for users")
		}
	}
	return nil
}

// UsersInContext reports the users with data in the given context: the
// owning user of a personal context when their row exists, nobody
// otherwise.
func (p *Provider) UsersInContext(ctx context.Context, c core.Context) ([]int, error) {
	if c.Level != core.ContextUser {
		return []int{}, nil
	}
	_, err := p.prefs.GetPreferenceByUserID(ctx, c.InstanceID)
	switch err {
	case nil:
		return []int{c.InstanceID}, nil
	case preference.ErrNotFound:
		return []int{}, nil
	default:
		return nil, errors.Wrap(err, "listing users in context")
	}
}

func firstUserContext(contexts []core.Context, userID int) (core.Context, bool) {
	for _, c := range contexts {
		if c.IsUserContext(userID) {
			return c, true
		}
	}
	return core.Context{}, false
}
