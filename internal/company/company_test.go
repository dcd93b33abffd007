package company

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	info *Info
}

func (f *fakeRepository) Get(context.Context) (Info, error) {
	if f.info == nil {
		return Info{}, ErrNotConfigured
	}
	return *f.info, nil
}

func (f *fakeRepository) Upsert(_ context.Context, info Info) (Info, error) {
	if f.info != nil {
		info.ID = f.info.ID
	}
	f.info = &info
	return info, nil
}

func TestProfileSingleton(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo)

	_, err := svc.Get(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)

	first, err := svc.Save(context.Background(), UpsertInput{Name: "Sunrise Lodge"})
	require.NoError(t, err)

	second, err := svc.Save(context.Background(), UpsertInput{Name: "Sunrise Lodge & Restaurant", Phone: "9876543210"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "saving again replaces the single profile")

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Sunrise Lodge & Restaurant", got.Name)
	require.Equal(t, "9876543210", got.Phone)
}

func TestSaveRequiresName(t *testing.T) {
	svc := NewService(&fakeRepository{})

	_, err := svc.Save(context.Background(), UpsertInput{Name: "  "})
	require.ErrorIs(t, err, ErrInvalidInput)
}
