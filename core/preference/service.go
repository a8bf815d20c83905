package preference

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/kumbuka/core"
)

var ErrNotFound = errors.New("preference not found")

type (
	Repository interface {
		GetPreferenceByUserID(ctx context.Context, userID int) (Preference, error)
		// QueryPreferencesByUserID returns all of a user's rows ordered by ID.
		// The unique key keeps this at one row; compliance exports still ask
		// for all of them in case historical duplicates resurface.
		QueryPreferencesByUserID(ctx context.Context, userID int) ([]Preference, error)
		CreatePreference(ctx context.Context, pref Preference) (Preference, error)
		UpdatePreference(ctx context.Context, pref Preference) (Preference, error)
		DeletePreferencesByUserID(ctx context.Context, userID int) error
	}

	Service struct {
		repo Repository
		conf *core.Config
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, conf: conf}
}

func (svc *Service) Get(ctx context.Context, userID int) (Preference, error) {
	return svc.repo.GetPreferenceByUserID(ctx, userID)
}

// FormData pre-populates the settings form for userID: the existing row if
// any, else a new-record payload carrying the (clamped) global default.
func (svc *Service) FormData(ctx context.Context, userID, courseID int) (UpsertPreference, error) {
	data := UpsertPreference{
		UserID:   userID,
		Limit:    ClampLimit(svc.conf.Block.DefaultLimit),
		CourseID: courseID,
	}

	pref, err := svc.repo.GetPreferenceByUserID(ctx, userID)
	switch err {
	case nil:
		data.ID = pref.ID
		data.Limit = pref.Limit
	case ErrNotFound:
	default:
		return UpsertPreference{}, err
	}
	return data, nil
}

// Upsert writes the user's display limit. The target row is resolved by
// user id, never by the submitted row id: concurrent or replayed
// submissions settle as last-write-wins on the single row.
func (svc *Service) Upsert(ctx context.Context, up UpsertPreference) (Preference, error) {
	now := time.Now().UTC()

	pref, err := svc.repo.GetPreferenceByUserID(ctx, up.UserID)
	switch err {
	case nil:
		pref.Limit = up.Limit
		pref.UpdatedAt = now
		return svc.repo.UpdatePreference(ctx, pref)
	case ErrNotFound:
		pref = Preference{
			UserID:    up.UserID,
			Limit:     up.Limit,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return svc.repo.CreatePreference(ctx, pref)
	default:
		return Preference{}, err
	}
}

func (svc *Service) Delete(ctx context.Context, userID int) error {
	return svc.repo.DeletePreferencesByUserID(ctx, userID)
}
