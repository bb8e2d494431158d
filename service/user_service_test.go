package service

import (
	"context"
	"path/filepath"
	"testing"

	"campus-grub-api/apperr"
	"campus-grub-api/models"
	"campus-grub-api/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupUsers(t *testing.T) (*UserService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "users.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := NewUserService(repository.NewUserRepository(db), NewProfileCache(rdb), zap.NewNop())
	return svc, db, mr
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _, _ := setupUsers(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Name: "Student", Email: "student@grub.com", Password: "test123", Role: models.RoleUser,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "test123", user.PasswordHash)

	got, err := svc.Authenticate(ctx, "student@grub.com", "test123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "student@grub.com", "wrong")
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	_, err = svc.Authenticate(ctx, "nobody@grub.com", "test123")
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestRegisterRejectsBadRoleAndDuplicateEmail(t *testing.T) {
	svc, _, _ := setupUsers(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "X", Email: "x@grub.com", Password: "p", Role: "superuser"})
	assert.True(t, apperr.Is(err, apperr.Validation))

	_, err = svc.Register(ctx, RegisterInput{Name: "A", Email: "dup@grub.com", Password: "p", Role: models.RoleUser})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "dup@grub.com", Password: "p", Role: models.RoleUser})
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestGetProfileFallsBackToCacheWhenStoreDown(t *testing.T) {
	svc, db, _ := setupUsers(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Name: "Student", Email: "student@grub.com", Password: "test123", Role: models.RoleUser, Phone: "999",
	})
	require.NoError(t, err)

	// Healthy store: served fresh and cached.
	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Student", profile.Name)

	// Kill the primary store; the cached last-known profile still serves.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	profile, err = svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Student", profile.Name)
	assert.Equal(t, models.RoleUser, profile.Role)
}

func TestGetProfileStoreDownNoCacheSurfacesError(t *testing.T) {
	_, db, _ := setupUsers(t)
	ctx := context.Background()

	// A cache-less service never masks a dead store.
	svc := NewUserService(repository.NewUserRepository(db), NewProfileCache(nil), zap.NewNop())
	user, err := svc.Register(ctx, RegisterInput{
		Name: "Ghost", Email: "ghost@grub.com", Password: "p", Role: models.RoleUser,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.GetProfile(ctx, user.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Persistence))
}

func TestGetProfileNotFoundIsAuthoritative(t *testing.T) {
	svc, _, _ := setupUsers(t)
	_, err := svc.GetProfile(context.Background(), 4242)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestProfileCacheExpiry(t *testing.T) {
	svc, db, mr := setupUsers(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Name: "Student", Email: "s@grub.com", Password: "p", Role: models.RoleUser,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// Expired cache entries no longer mask a dead store.
	mr.FastForward(profileTTL + 1)
	_, err = svc.GetProfile(ctx, user.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Persistence))
}
