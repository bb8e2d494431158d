package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"campus-grub-api/apperr"
	"campus-grub-api/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Restaurant{}, &models.MenuItem{},
		&models.Order{}, &models.OrderItem{}, &models.OrderStatusHistory{},
	))
	return db
}

func makeOrder(number string, status models.OrderStatus) *models.Order {
	return &models.Order{
		OrderNumber:           number,
		UserID:                1,
		RestaurantID:          1,
		Status:                status,
		PaymentMethod:         models.PaymentCash,
		PaymentStatus:         models.PaymentStatusPending,
		Subtotal:              100,
		Total:                 105,
		Tax:                   5,
		OrderTime:             time.Now(),
		EstimatedDeliveryTime: time.Now().Add(30 * time.Minute),
		Items: []models.OrderItem{
			{MenuItemID: 1, Name: "Paneer Wrap", UnitPrice: 100, Quantity: 1, LineTotal: 100},
		},
	}
}

func TestCreateEnforcesUniqueOrderNumber(t *testing.T) {
	db := testDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeOrder("GC0001", models.StatusPending), &models.OrderStatusHistory{ToStatus: models.StatusPending}))

	err := repo.Create(ctx, makeOrder("GC0001", models.StatusPending), &models.OrderStatusHistory{ToStatus: models.StatusPending})
	require.Error(t, err)
	assert.True(t, IsDuplicate(err), "duplicate number must be detectable, got %v", err)

	// The failed creation must leave nothing behind, history included.
	var orders, histories int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderStatusHistory{}).Count(&histories)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(1), histories)
}

func TestUpdateStatusCompareAndSwap(t *testing.T) {
	db := testDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := makeOrder("GC0002", models.StatusPending)
	require.NoError(t, repo.Create(ctx, order, &models.OrderStatusHistory{ToStatus: models.StatusPending}))

	applied, err := repo.UpdateStatus(ctx, order.ID, models.StatusPending, map[string]any{"status": models.StatusReady})
	require.NoError(t, err)
	assert.True(t, applied)

	// Second writer conditioned on the stale status loses.
	applied, err = repo.UpdateStatus(ctx, order.ID, models.StatusPending, map[string]any{"status": models.StatusCancelled})
	require.NoError(t, err)
	assert.False(t, applied)

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, stored.Status)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewOrderRepository(testDB(t))
	_, err := repo.GetByID(context.Background(), 42)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestGetByNumber(t *testing.T) {
	db := testDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := makeOrder("GC0003", models.StatusPending)
	require.NoError(t, repo.Create(ctx, order, &models.OrderStatusHistory{ToStatus: models.StatusPending}))

	found, err := repo.GetByNumber(ctx, "GC0003")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Paneer Wrap", found.Items[0].Name)

	_, err = repo.GetByNumber(ctx, "GC9999")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestListMultiStatusAndPagination(t *testing.T) {
	db := testDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	statuses := []models.OrderStatus{
		models.StatusPending, models.StatusPending, models.StatusReady,
		models.StatusDelivered, models.StatusCancelled,
	}
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i, st := range statuses {
		o := makeOrder("GCL"+string(rune('A'+i)), st)
		o.OrderTime = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, o, &models.OrderStatusHistory{ToStatus: models.StatusPending}))
	}

	orders, total, err := repo.List(ctx, OrderFilter{
		Statuses: []models.OrderStatus{models.StatusPending, models.StatusReady},
	}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, orders, 2)
	assert.True(t, orders[0].OrderTime.After(orders[1].OrderTime), "newest first")

	orders, total, err = repo.List(ctx, OrderFilter{
		Statuses: []models.OrderStatus{models.StatusPending, models.StatusReady},
	}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, orders, 1)

	orders, _, err = repo.List(ctx, OrderFilter{Statuses: []models.OrderStatus{models.StatusDelivered}}, 1, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusDelivered, orders[0].Status)
}
