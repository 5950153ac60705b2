package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	profiledomain "github.com/inkvoice/inkvoice/internal/profile/domain"
)

func setupService(t *testing.T) profiledomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&profiledomain.Profile{}))

	return NewService(ServiceParam{
		DB:  db,
		Log: zap.NewNop(),
	})
}

func TestGetAbsentReturnsZeroProfile(t *testing.T) {
	svc := setupService(t)

	prof, err := svc.Get(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, profiledomain.Profile{}, prof)
}

func TestSaveThenGet(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	err := svc.Save(ctx, "a@x.com", profiledomain.SavePayload{
		CompanyName: "Acme Studio",
		Address:     "1 Main St",
		Currency:    "EUR",
		LogoDataURI: "data:image/png;base64,AAAA",
	})
	require.NoError(t, err)

	prof, err := svc.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", prof.OwnerEmail)
	assert.Equal(t, "Acme Studio", prof.CompanyName)
	assert.Equal(t, "1 Main St", prof.Address)
	assert.Equal(t, "EUR", prof.Currency)
	assert.Equal(t, "data:image/png;base64,AAAA", prof.LogoDataURI)
}

func TestSaveIsFullReplacement(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "a@x.com", profiledomain.SavePayload{
		CompanyName: "Acme Studio",
		Address:     "1 Main St",
		Currency:    "EUR",
		LogoDataURI: "data:image/png;base64,AAAA",
	}))

	// Omitted fields clear; blank currency falls back to USD.
	require.NoError(t, svc.Save(ctx, "a@x.com", profiledomain.SavePayload{
		CompanyName: "Acme Studio v2",
	}))

	prof, err := svc.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme Studio v2", prof.CompanyName)
	assert.Empty(t, prof.Address)
	assert.Equal(t, "USD", prof.Currency)
	assert.Empty(t, prof.LogoDataURI)
}

func TestProfilesAreScopedByOwner(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "a@x.com", profiledomain.SavePayload{CompanyName: "A Co"}))
	require.NoError(t, svc.Save(ctx, "b@x.com", profiledomain.SavePayload{CompanyName: "B Co"}))

	profA, err := svc.Get(ctx, "a@x.com")
	require.NoError(t, err)
	profB, err := svc.Get(ctx, "b@x.com")
	require.NoError(t, err)

	assert.Equal(t, "A Co", profA.CompanyName)
	assert.Equal(t, "B Co", profB.CompanyName)
}
