package repository

import (
	"context"
	"errors"

	"campus-grub-api/apperr"
	"campus-grub-api/models"

	"gorm.io/gorm"
)

type RestaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id uint) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := r.db.WithContext(ctx).First(&rest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "restaurant %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "fetching restaurant %d", id)
	}
	return &rest, nil
}

// GetByOwner returns the restaurant owned by the given user, if any.
func (r *RestaurantRepository) GetByOwner(ctx context.Context, ownerID uint) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&rest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "no restaurant registered for this account")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "fetching restaurant for owner %d", ownerID)
	}
	return &rest, nil
}

// ListApproved returns customer-visible restaurants only.
func (r *RestaurantRepository) ListApproved(ctx context.Context) ([]models.Restaurant, error) {
	var rests []models.Restaurant
	err := r.db.WithContext(ctx).
		Where("status = ?", models.RestaurantApproved).
		Order("rating desc").
		Find(&rests).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "listing restaurants")
	}
	return rests, nil
}

// ListAll returns every restaurant regardless of approval state (admin view).
func (r *RestaurantRepository) ListAll(ctx context.Context) ([]models.Restaurant, error) {
	var rests []models.Restaurant
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&rests).Error; err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "listing restaurants")
	}
	return rests, nil
}

func (r *RestaurantRepository) Create(ctx context.Context, rest *models.Restaurant) error {
	if err := r.db.WithContext(ctx).Create(rest).Error; err != nil {
		return apperr.Wrap(apperr.Persistence, err, "creating restaurant")
	}
	return nil
}

func (r *RestaurantRepository) Update(ctx context.Context, rest *models.Restaurant) error {
	if err := r.db.WithContext(ctx).Save(rest).Error; err != nil {
		return apperr.Wrap(apperr.Persistence, err, "updating restaurant %d", rest.ID)
	}
	return nil
}

// SetStatus flips the admin approval state.
func (r *RestaurantRepository) SetStatus(ctx context.Context, id uint, status models.RestaurantStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Restaurant{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return apperr.Wrap(apperr.Persistence, res.Error, "updating restaurant %d status", id)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "restaurant %d not found", id)
	}
	return nil
}
