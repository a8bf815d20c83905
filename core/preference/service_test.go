package preference_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kumbuka/core"
	"github.com/trezcool/kumbuka/core/preference"
	dummydb "github.com/trezcool/kumbuka/storage/database/dummy"
)

func newService(t *testing.T, defaultLimit int) (*preference.Service, preference.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewPreferenceRepository(db)
	conf := &core.Config{Block: core.BlockConfig{DefaultLimit: defaultLimit}}
	return preference.NewService(repo, conf), repo
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "below lower bound", limit: 0, want: 1},
		{name: "negative", limit: -5, want: 1},
		{name: "lower bound", limit: 1, want: 1},
		{name: "in range", limit: 5, want: 5},
		{name: "upper bound", limit: 10, want: 10},
		{name: "above upper bound", limit: 11, want: 10},
		{name: "way above", limit: 1000, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, preference.ClampLimit(tt.limit))
			// clamping an already clamped value changes nothing
			assert.Equal(t, tt.want, preference.ClampLimit(preference.ClampLimit(tt.limit)))
		})
	}
}

func TestUpsertPreference_Validate(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{name: "below lower bound", limit: 0, wantErr: true},
		{name: "negative", limit: -1, wantErr: true},
		{name: "lower bound", limit: 1},
		{name: "in range", limit: 5},
		{name: "upper bound", limit: 10},
		{name: "above upper bound", limit: 11, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := preference.UpsertPreference{UserID: 1, Limit: tt.limit}
			err := up.Validate(validate)
			if tt.wantErr {
				vErrs, ok := err.(validator.ValidationErrors)
				require.True(t, ok, "expected validator.ValidationErrors, got %v", err)
				assert.Equal(t, "Limit", vErrs[0].StructField())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_FormData(t *testing.T) {
	svc, repo := newService(t, 5)
	ctx := context.Background()

	t.Run("new user gets the global default", func(t *testing.T) {
		data, err := svc.FormData(ctx, 1, 7)
		require.NoError(t, err)
		assert.Equal(t, preference.UpsertPreference{UserID: 1, Limit: 5, CourseID: 7}, data)
	})

	t.Run("existing row pre-populates the form", func(t *testing.T) {
		pref, err := repo.CreatePreference(ctx, preference.Preference{UserID: 2, Limit: 8})
		require.NoError(t, err)

		data, err := svc.FormData(ctx, 2, 7)
		require.NoError(t, err)
		assert.Equal(t, preference.UpsertPreference{ID: pref.ID, UserID: 2, Limit: 8, CourseID: 7}, data)
	})

	t.Run("out-of-range global default is clamped", func(t *testing.T) {
		svc, _ := newService(t, 99)
		data, err := svc.FormData(ctx, 3, 7)
		require.NoError(t, err)
		assert.Equal(t, 10, data.Limit)
	})
}

func TestService_Upsert(t *testing.T) {
	svc, repo := newService(t, 5)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, preference.UpsertPreference{UserID: 1, Limit: 3})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 3, created.Limit)

	// a second submission updates the same row
	updated, err := svc.Upsert(ctx, preference.UpsertPreference{UserID: 1, Limit: 9})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 9, updated.Limit)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	prefs, err := repo.QueryPreferencesByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, 9, prefs[0].Limit)
}

func TestService_Delete(t *testing.T) {
	svc, repo := newService(t, 5)
	ctx := context.Background()

	_, err := repo.CreatePreference(ctx, preference.Preference{UserID: 1, Limit: 3})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1))
	_, err = svc.Get(ctx, 1)
	assert.Equal(t, preference.ErrNotFound, err)

	// deleting an absent row is a no-op
	assert.NoError(t, svc.Delete(ctx, 1))
}
