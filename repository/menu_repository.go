package repository

import (
	"context"
	"errors"

	"campus-grub-api/apperr"
	"campus-grub-api/models"

	"gorm.io/gorm"
)

// MenuItemRepository is the catalog lookup boundary: the lifecycle engine
// reads name/price/availability here exactly once, at order creation.
type MenuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) *MenuItemRepository {
	return &MenuItemRepository{db: db}
}

// GetByIDs returns the menu items for the given ids, keyed by id. Missing ids
// are simply absent from the map; the caller decides how to report them.
func (r *MenuItemRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "looking up menu items")
	}
	out := make(map[uint]models.MenuItem, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func (r *MenuItemRepository) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "menu item %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "fetching menu item %d", id)
	}
	return &item, nil
}

func (r *MenuItemRepository) ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("category, name").
		Find(&items).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "listing menu for restaurant %d", restaurantID)
	}
	return items, nil
}

func (r *MenuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return apperr.Wrap(apperr.Persistence, err, "creating menu item")
	}
	return nil
}

func (r *MenuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return apperr.Wrap(apperr.Persistence, err, "updating menu item %d", item.ID)
	}
	return nil
}

func (r *MenuItemRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return apperr.Wrap(apperr.Persistence, res.Error, "deleting menu item %d", id)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "menu item %d not found", id)
	}
	return nil
}
