package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/kumbuka/core/preference"
)

type preferenceRepository struct {
	db *preferenceTable
}

var _ preference.Repository = (*preferenceRepository)(nil) // interface compliance check

func NewPreferenceRepository(db *DB) preference.Repository {
	return &preferenceRepository{db: db.preference}
}

func (repo *preferenceRepository) GetPreferenceByUserID(ctx context.Context, userID int) (preference.Preference, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, pref := range repo.db.table {
		if pref.UserID == userID {
			return *pref, nil
		}
	}
	return preference.Preference{}, preference.ErrNotFound
}

func (repo *preferenceRepository) QueryPreferencesByUserID(ctx context.Context, userID int) ([]preference.Preference, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	prefs := make([]preference.Preference, 0, 1)
	for _, pref := range repo.db.table {
		if pref.UserID == userID {
			prefs = append(prefs, *pref)
		}
	}
	sort.Slice(prefs, func(i, j int) bool {
		if !prefs[i].CreatedAt.Equal(prefs[j].CreatedAt) {
			return prefs[i].CreatedAt.Before(prefs[j].CreatedAt)
		}
		return prefs[i].ID < prefs[j].ID
	})
	return prefs, nil
}

func (repo *preferenceRepository) CreatePreference(ctx context.Context, pref preference.Preference) (preference.Preference, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	pref.ID = uuid.New().String()
	repo.db.table[pref.ID] = &pref
	return pref, nil
}

func (repo *preferenceRepository) UpdatePreference(ctx context.Context, pref preference.Preference) (preference.Preference, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[pref.ID]; !ok {
		return preference.Preference{}, preference.ErrNotFound
	}
	repo.db.table[pref.ID] = &pref
	return pref, nil
}

func (repo *preferenceRepository) DeletePreferencesByUserID(ctx context.Context, userID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, pref := range repo.db.table {
		if pref.UserID == userID {
			delete(repo.db.table, id)
		}
	}
	return nil
}
