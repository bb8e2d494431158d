package repository

import (
	"context"
	"errors"
	"strings"

	"campus-grub-api/apperr"
	"campus-grub-api/models"

	"gorm.io/gorm"
)

// OrderFilter narrows List. Zero values mean "no constraint"; Statuses may
// hold several values (multi-status dashboard queries are first-class).
type OrderFilter struct {
	UserID       uint
	RestaurantID uint
	Statuses     []models.OrderStatus
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// IsDuplicate reports whether err is a unique-constraint violation. Used by
// the order-number collision retry loop.
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

// Create persists the order with its item snapshots and the initial history
// row in one transaction. All-or-nothing: a failure partway persists nothing.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order, history *models.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		history.OrderID = order.ID
		return tx.Create(history).Error
	})
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "order %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "fetching order %d", id)
	}
	return &order, nil
}

func (r *OrderRepository) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", number).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "order %s not found", number)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "fetching order %s", number)
	}
	return &order, nil
}

// List returns one page of matching orders, newest order time first, plus the
// total match count for pagination.
func (r *OrderRepository) List(ctx context.Context, filter OrderFilter, page, limit int) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.RestaurantID != 0 {
		q = q.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if len(filter.Statuses) == 1 {
		q = q.Where("status = ?", filter.Statuses[0])
	} else if len(filter.Statuses) > 1 {
		q = q.Where("status IN ?", filter.Statuses)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap(apperr.Persistence, err, "counting orders")
	}

	var orders []models.Order
	err := q.Preload("Items").
		Order("order_time desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Persistence, err, "listing orders")
	}
	return orders, total, nil
}

// UpdateStatus applies a transition conditioned on the status still being
// what the caller just read (compare-and-swap). It reports whether the write
// took effect; a false return with nil error means another writer got there
// first and the caller must surface Conflict.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uint, from models.OrderStatus, patch map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(patch)
	if res.Error != nil {
		return false, apperr.Wrap(apperr.Persistence, res.Error, "updating order %d", orderID)
	}
	return res.RowsAffected > 0, nil
}

// AppendHistory records a transition in the audit trail.
func (r *OrderRepository) AppendHistory(ctx context.Context, h *models.OrderStatusHistory) error {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return apperr.Wrap(apperr.Persistence, err, "recording status history for order %d", h.OrderID)
	}
	return nil
}

// CountByStatus aggregates order counts per status for dashboards.
func (r *OrderRepository) CountByStatus(ctx context.Context, filter OrderFilter) (map[models.OrderStatus]int64, error) {
	type row struct {
		Status models.OrderStatus
		N      int64
	}
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.RestaurantID != 0 {
		q = q.Where("restaurant_id = ?", filter.RestaurantID)
	}
	var rows []row
	if err := q.Select("status, count(*) as n").Group("status").Scan(&rows).Error; err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "aggregating order counts")
	}
	out := make(map[models.OrderStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

// Revenue sums order totals, excluding cancelled orders.
func (r *OrderRepository) Revenue(ctx context.Context, filter OrderFilter) (float64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("status <> ?", models.StatusCancelled)
	if filter.RestaurantID != 0 {
		q = q.Where("restaurant_id = ?", filter.RestaurantID)
	}
	var total *float64
	if err := q.Select("sum(total)").Scan(&total).Error; err != nil {
		return 0, apperr.Wrap(apperr.Persistence, err, "summing revenue")
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
